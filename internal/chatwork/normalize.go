// Package chatwork 外部聊天（Chatwork）数据的规范化：利用者名、日时、分类标签
package chatwork

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// halfToFullKana 半角片假名（含半角句读点）→ 全角片假名，共 63 项
// 浊点/半浊点映射为独立的全角符号（゛゜），不与前一字符合成
var halfToFullKana = map[rune]rune{
	'｡': '。', '｢': '「', '｣': '」', '､': '、', '･': '・',
	'ｦ': 'ヲ', 'ｧ': 'ァ', 'ｨ': 'ィ', 'ｩ': 'ゥ', 'ｪ': 'ェ',
	'ｫ': 'ォ', 'ｬ': 'ャ', 'ｭ': 'ュ', 'ｮ': 'ョ', 'ｯ': 'ッ',
	'ｰ': 'ー', 'ｱ': 'ア', 'ｲ': 'イ', 'ｳ': 'ウ', 'ｴ': 'エ',
	'ｵ': 'オ', 'ｶ': 'カ', 'ｷ': 'キ', 'ｸ': 'ク', 'ｹ': 'ケ',
	'ｺ': 'コ', 'ｻ': 'サ', 'ｼ': 'シ', 'ｽ': 'ス', 'ｾ': 'セ',
	'ｿ': 'ソ', 'ﾀ': 'タ', 'ﾁ': 'チ', 'ﾂ': 'ツ', 'ﾃ': 'テ',
	'ﾄ': 'ト', 'ﾅ': 'ナ', 'ﾆ': 'ニ', 'ﾇ': 'ヌ', 'ﾈ': 'ネ',
	'ﾉ': 'ノ', 'ﾊ': 'ハ', 'ﾋ': 'ヒ', 'ﾌ': 'フ', 'ﾍ': 'ヘ',
	'ﾎ': 'ホ', 'ﾏ': 'マ', 'ﾐ': 'ミ', 'ﾑ': 'ム', 'ﾒ': 'メ',
	'ﾓ': 'モ', 'ﾔ': 'ヤ', 'ﾕ': 'ユ', 'ﾖ': 'ヨ', 'ﾗ': 'ラ',
	'ﾘ': 'リ', 'ﾙ': 'ル', 'ﾚ': 'レ', 'ﾛ': 'ロ', 'ﾜ': 'ワ',
	'ﾝ': 'ン', 'ﾞ': '゛', 'ﾟ': '゜',
}

// archaicKana 旧字片假名：ヱ → エ, ヰ → イ
var archaicKana = map[rune]rune{
	'ヱ': 'エ',
	'ヰ': 'イ',
}

// cjkVariants CJK 兼容汉字 → 标准汉字（表外的兼容字原样保留，交给 NFC 处理）
// U+FA11 没有规范分解，NFC 不会处理，必须在此显式映射
var cjkVariants = map[rune]rune{
	'\uFA10': '\u585A', // 塚
	'\uFA11': '\u5D0E', // 崎
	'\uFA12': '\u6674', // 晴
	'\uFA15': '\u51DE', // 凞
	'\uFA19': '\u795E', // 神
	'\uFA1A': '\u7965', // 祥
	'\uFA1B': '\u798F', // 福
	'\uFA1C': '\u9756', // 靖
	'\uFA1D': '\u7CBE', // 精
	'\uFA1E': '\u7FBD', // 羽
	'\uFA67': '\u9038', // 逸
}

// NormalizeName 将利用者名规范化为名寄せ键
// 名册侧与聊天侧必须使用同一函数，两边才能按字符串相等比较
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isNameSpace(r) {
			continue
		}
		if full, ok := halfToFullKana[r]; ok {
			r = full
		}
		if modern, ok := archaicKana[r]; ok {
			r = modern
		}
		if canonical, ok := cjkVariants[r]; ok {
			r = canonical
		}
		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}

func isNameSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\u3000' || r == '\uFEFF'
}
