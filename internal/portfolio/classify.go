// Package portfolio implements the field-mapping classifier and the sync
// engine that merges reviewed text back into the structured profile record.
package portfolio

import (
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// fieldKeywordFamilies maps keyword families to profile fields. Order
// matters: more specific families come first so "インターンシップ経験"
// resolves to internship, not experience.
var fieldKeywordFamilies = []struct {
	field    types.Field
	keywords []string
}{
	{types.FieldSelfIntroduction, []string{"自己紹介", "自己pr", "self introduction", "self-introduction", "about me", "プロフィール"}},
	{types.FieldInternship, []string{"インターン", "intern"}},
	{types.FieldExtracurricular, []string{"課外", "部活", "サークル", "ボランティア", "ガクチカ", "学生時代", "extracurricular", "club", "volunteer"}},
	{types.FieldAwards, []string{"受賞", "表彰", "コンテスト", "コンペ", "award", "prize"}},
	{types.FieldProjects, []string{"プロジェクト", "制作", "作品", "開発", "project", "portfolio piece"}},
	{types.FieldCustomQuestions, []string{"設問", "志望動機", "custom question", "essay question"}},
	{types.FieldExperience, []string{"経験", "職歴", "経歴", "experience", "work history"}},
	{types.FieldAdditionalInfo, []string{"補足", "その他", "追加情報", "備考", "additional", "notes"}},
}

// SuggestField heuristically suggests which structured-profile field a
// reviewed section corresponds to, based on its title. Returns FieldNone
// when no keyword family matches.
//
// This is a suggestion, not a binding decision: the sync engine only acts on
// explicit caller-approved assignments.
func SuggestField(sectionTitle string) types.Field {
	title := strings.ToLower(strings.TrimSpace(sectionTitle))
	if title == "" {
		return types.FieldNone
	}

	for _, family := range fieldKeywordFamilies {
		for _, keyword := range family.keywords {
			if strings.Contains(title, keyword) {
				return family.field
			}
		}
	}
	return types.FieldNone
}
