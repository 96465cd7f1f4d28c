package language

import (
	"sort"
	"strings"
)

// supported 是受支持的语言代码到英文名称的映射。
// 代码沿用上游翻译服务的ISO 639-1习惯（含少量带地区后缀的变体）。
var supported = map[string]string{
	"af":    "Afrikaans",
	"ar":    "Arabic",
	"bg":    "Bulgarian",
	"bn":    "Bengali",
	"ca":    "Catalan",
	"cs":    "Czech",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"es":    "Spanish",
	"et":    "Estonian",
	"fa":    "Persian",
	"fi":    "Finnish",
	"fr":    "French",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hr":    "Croatian",
	"hu":    "Hungarian",
	"id":    "Indonesian",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"lt":    "Lithuanian",
	"lv":    "Latvian",
	"ms":    "Malay",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"sr":    "Serbian",
	"sv":    "Swedish",
	"sw":    "Swahili",
	"ta":    "Tamil",
	"te":    "Telugu",
	"th":    "Thai",
	"tl":    "Filipino",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"vi":    "Vietnamese",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
}

// nameToCode 是按小写名称反查代码的索引，在包初始化时构建。
var nameToCode = func() map[string]string {
	m := make(map[string]string, len(supported))
	for code, name := range supported {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// IsSupported 判断一个语言代码是否受支持。
func IsSupported(code string) bool {
	_, ok := supported[strings.ToLower(code)]
	return ok
}

// Name 返回语言代码对应的英文名称，未知代码返回原样。
func Name(code string) string {
	if name, ok := supported[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// CodeForName 按英文名称反查语言代码（大小写不敏感）。
// 查不到时返回输入本身，让后续的代码校验统一报错。
func CodeForName(name string) string {
	if code, ok := nameToCode[strings.ToLower(name)]; ok {
		return code
	}
	return name
}

// Option 是对外返回的单个语言条目。
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Sorted 返回按名称排序的全部受支持语言。
func Sorted() []Option {
	options := make([]Option, 0, len(supported))
	for code, name := range supported {
		options = append(options, Option{Code: code, Name: name})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Name < options[j].Name
	})
	return options
}
