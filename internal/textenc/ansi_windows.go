//go:build windows

package textenc

import (
	"sync"

	"golang.org/x/sys/windows"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

var (
	acpOnce sync.Once
	acpEnc  encoding.Encoding

	kernel32   = windows.NewLazySystemDLL("kernel32.dll")
	procGetACP = kernel32.NewProc("GetACP")
)

// ansiEncoding 按 GetACP() 选择代码页编码，进程内只判定一次
func ansiEncoding() encoding.Encoding {
	acpOnce.Do(func() {
		cp, _, _ := procGetACP.Call()
		switch cp {
		case 932:
			acpEnc = japanese.ShiftJIS
		case 936:
			acpEnc = simplifiedchinese.GBK
		case 949:
			acpEnc = korean.EUCKR
		case 950:
			acpEnc = traditionalchinese.Big5
		case 1250:
			acpEnc = charmap.Windows1250
		case 1251:
			acpEnc = charmap.Windows1251
		case 1253:
			acpEnc = charmap.Windows1253
		case 1254:
			acpEnc = charmap.Windows1254
		case 1255:
			acpEnc = charmap.Windows1255
		case 1256:
			acpEnc = charmap.Windows1256
		case 1257:
			acpEnc = charmap.Windows1257
		case 1258:
			acpEnc = charmap.Windows1258
		default:
			acpEnc = charmap.Windows1252
		}
	})
	return acpEnc
}

func toANSI(utf8Text string) ([]byte, error) {
	return ansiEncoding().NewEncoder().Bytes([]byte(utf8Text))
}

func toUTF8(ansi []byte) (string, error) {
	out, err := ansiEncoding().NewDecoder().Bytes(ansi)
	return string(out), err
}
