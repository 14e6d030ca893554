package audio

// Format 采样格式
// RawFile 表示不透明的整个音频文件（如完整的 WAV），桥接层不解析其内容
type Format int32

const (
	FormatUnknown Format = 0
	FormatU8      Format = 1
	FormatS16     Format = 2
	FormatS24     Format = 3
	FormatS32     Format = 4
	FormatF32     Format = 5
	FormatRawFile Format = 100
)

// SizeOf 返回单个样本占用的字节数
// S24 严格占 3 字节，磁盘与线上传输都保持该紧凑排列
func SizeOf(f Format) int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32:
		return 4
	case FormatF32:
		return 4
	default:
		return 0
	}
}

// BitsOf 返回单个样本的位数
func BitsOf(f Format) int {
	return SizeOf(f) * 8
}

// IsPCM 判断是否为可逐样本解释的 PCM 格式
func (f Format) IsPCM() bool {
	switch f {
	case FormatU8, FormatS16, FormatS24, FormatS32, FormatF32:
		return true
	default:
		return false
	}
}

func (f Format) String() string {
	switch f {
	case FormatUnknown:
		return "unknown"
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS24:
		return "s24"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatRawFile:
		return "rawfile"
	default:
		return "invalid"
	}
}
