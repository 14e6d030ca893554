package talk

import (
	"encoding/json"
	"fmt"
)

// Talk 域类型与通用 JSON 值树的双向映射
// 线上数字一律是 JSON number，不区分整型与浮点
// from_json(to_json(x)) 在可观察字段上等于 x

var namedParams = []struct {
	key   string
	index int
}{
	{"volume", ParamVolume},
	{"speed", ParamSpeed},
	{"pitch", ParamPitch},
	{"intonation", ParamIntonation},
	{"alpha", ParamAlpha},
	{"normal", ParamNormal},
	{"joy", ParamJoy},
	{"anger", ParamAnger},
	{"sorrow", ParamSorrow},
}

// MarshalJSON 只写出置位的子字段，外加 num_params 与等长的 params 数组
func (p TalkParams) MarshalJSON() ([]byte, error) {
	obj := map[string]interface{}{}
	if p.MuteSet() {
		obj["mute"] = boolToInt32(p.Mute)
	}
	if p.ForceMonoSet() {
		obj["force_mono"] = boolToInt32(p.ForceMono)
	}
	if p.CastSet() {
		obj["cast"] = p.Cast
	}
	for _, np := range namedParams {
		if p.IsSet(np.index) {
			obj[np.key] = p.Params[np.index]
		}
	}
	obj["num_params"] = p.NumParams
	params := make([]float32, 0, p.NumParams)
	for i := int32(0); i < p.NumParams && i < MaxParams; i++ {
		params = append(params, p.Params[i])
	}
	obj["params"] = params
	return json.Marshal(obj)
}

// UnmarshalJSON 识别的键设置对应值并置位；未知键忽略
func (p *TalkParams) UnmarshalJSON(data []byte) error {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("talk params: %w", err)
	}
	for key, raw := range obj {
		switch key {
		case "mute":
			if f, ok := raw.(float64); ok {
				p.SetMute(f != 0)
			}
		case "force_mono":
			if f, ok := raw.(float64); ok {
				p.SetForceMono(f != 0)
			}
		case "cast":
			if f, ok := raw.(float64); ok {
				p.SetCast(int32(f))
			}
		case "num_params":
			if f, ok := raw.(float64); ok {
				p.NumParams = int32(f)
			}
		case "params":
			arr, ok := raw.([]interface{})
			if !ok {
				continue
			}
			n := len(arr)
			if n > MaxParams {
				n = MaxParams
			}
			p.NumParams = int32(n)
			for i := 0; i < n; i++ {
				if f, ok := arr[i].(float64); ok {
					p.Params[i] = float32(f)
				}
			}
		default:
			for _, np := range namedParams {
				if np.key == key {
					if f, ok := raw.(float64); ok {
						p.Set(np.index, float32(f))
					}
					break
				}
			}
		}
	}
	return nil
}

type castInfoJSON struct {
	ID         int32    `json:"id"`
	Name       string   `json:"name"`
	ParamNames []string `json:"param_names,omitempty"`
}

func (c CastInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(castInfoJSON{ID: c.ID, Name: c.Name, ParamNames: c.ParamNames})
}

func (c *CastInfo) UnmarshalJSON(data []byte) error {
	var j castInfoJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("cast info: %w", err)
	}
	c.ID = j.ID
	c.Name = j.Name
	c.ParamNames = j.ParamNames
	return nil
}
