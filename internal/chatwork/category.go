package chatwork

import (
	"regexp"

	"github.com/nerufirm/appneruf/internal/domain"
)

type categoryRule struct {
	pattern *regexp.Regexp
	tag     domain.CategoryTag
}

// categoryRules 按优先级排列，命中第一条即返回
// 例如同时出现排泄与发热关键词时归为「排泄」，新增规则时必须保持此顺序语义
var categoryRules = []categoryRule{
	{regexp.MustCompile(`便|尿|オムツ|パット`), domain.CategoryExcretion},
	{regexp.MustCompile(`熱|度|血圧|[Ss][Pp][Oo]2|痰`), domain.CategoryCondition},
	{regexp.MustCompile(`入眠|覚醒|鼾|眠`), domain.CategorySleep},
}

// InferCategoryTag 根据关键词推测聊天记录的分类标签，未命中时为「その他」
func InferCategoryTag(message string) domain.CategoryTag {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(message) {
			return rule.tag
		}
	}
	return domain.CategoryOther
}
