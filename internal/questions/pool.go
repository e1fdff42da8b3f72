package questions

import (
	"context"
	"slices"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Pool is the static fallback question set. Every registered skill area has
// at least one entry.
var Pool = []state.Question{
	{ID: "pool-1", SkillArea: state.SkillFormulas, Difficulty: state.DifficultyBasic,
		Text:            "What are absolute and relative references in Excel? Give an example.",
		ReferenceAnswer: "A1 changes when copied; $A$1 stays fixed."},
	{ID: "pool-2", SkillArea: state.SkillFormulas, Difficulty: state.DifficultyBasic,
		Text:            "Write a formula to average column A ignoring blanks.",
		ReferenceAnswer: `=AVERAGEIF(A:A,"<>")`},
	{ID: "pool-3", SkillArea: state.SkillDataCleaning, Difficulty: state.DifficultyIntermediate,
		Text:            "How do you remove duplicate rows and handle blanks in a dataset?",
		ReferenceAnswer: "Use Remove Duplicates, filter blanks, or Power Query."},
	{ID: "pool-4", SkillArea: state.SkillPivotTables, Difficulty: state.DifficultyAdvanced,
		Text:            "How would you build a Pivot Table to show average sales by region?",
		ReferenceAnswer: "Insert PivotTable; Region in Rows; Sales in Values summarized by Average."},
	{ID: "pool-5", SkillArea: state.SkillProtection, Difficulty: state.DifficultyBasic,
		Text:            "How do you protect formulas but allow edits in certain cells?",
		ReferenceAnswer: "Unlock editable cells, lock formula cells, then protect the sheet."},
	{ID: "pool-6", SkillArea: state.SkillReporting, Difficulty: state.DifficultyIntermediate,
		Text:            "How would you build a monthly summary report that updates when new rows are added?",
		ReferenceAnswer: "Convert the data to a Table and summarize it with SUMIFS or a PivotTable; the Table range grows automatically."},
	{ID: "pool-7", SkillArea: state.SkillFormulas, Difficulty: state.DifficultyIntermediate,
		Text:            "When would you use INDEX/MATCH or XLOOKUP instead of VLOOKUP?",
		ReferenceAnswer: "For lookups to the left, robustness to inserted columns, and exact matches by default."},
	{ID: "pool-8", SkillArea: state.SkillDataCleaning, Difficulty: state.DifficultyBasic,
		Text:            "How do you split full names in one column into first and last name columns?",
		ReferenceAnswer: "Text to Columns with a space delimiter, Flash Fill, or TEXTBEFORE/TEXTAFTER."},
	{ID: "pool-9", SkillArea: state.SkillPivotTables, Difficulty: state.DifficultyIntermediate,
		Text:            "How do you group dates in a Pivot Table by month and quarter?",
		ReferenceAnswer: "Right-click a date in the Pivot Table, choose Group, and select Months and Quarters."},
	{ID: "pool-10", SkillArea: state.SkillReporting, Difficulty: state.DifficultyAdvanced,
		Text:            "Design a KPI dashboard that can be filtered interactively by region.",
		ReferenceAnswer: "PivotTables and PivotCharts over one data model, slicers connected to every pivot, KPI cells using GETPIVOTDATA."},
	{ID: "pool-11", SkillArea: state.SkillProtection, Difficulty: state.DifficultyIntermediate,
		Text:            "How would you restrict a cell to accept only dates in the current year?",
		ReferenceAnswer: "Data Validation allowing Date between DATE(YEAR(TODAY()),1,1) and DATE(YEAR(TODAY()),12,31) with an error alert."},
}

// Fallback picks a pool question deterministically. Preference order:
//  1. an unasked skill area at the requested difficulty
//  2. an unasked skill area at any difficulty
//  3. the requested difficulty
//  4. anything not yet asked
//
// Questions already in the history are never repeated while others remain.
func Fallback(req Request) state.Question {
	asked := make(map[string]bool, len(req.History))
	for _, e := range req.History {
		asked[e.Question.ID] = true
	}
	fresh := func(q state.Question) bool { return !asked[q.ID] }
	newSkill := func(q state.Question) bool { return !slices.Contains(req.Avoid, q.SkillArea) }
	atLevel := func(q state.Question) bool { return q.Difficulty == req.Difficulty }

	passes := [][]func(state.Question) bool{
		{fresh, newSkill, atLevel},
		{fresh, newSkill},
		{fresh, atLevel},
		{fresh},
	}
	for _, preds := range passes {
		for _, q := range Pool {
			if all(q, preds) {
				return q
			}
		}
	}
	return Pool[len(req.History)%len(Pool)]
}

func all(q state.Question, preds []func(state.Question) bool) bool {
	for _, p := range preds {
		if !p(q) {
			return false
		}
	}
	return true
}

// Static is a Source that only ever serves the fallback pool.
type Static struct{}

// Next returns Fallback(req).
func (Static) Next(_ context.Context, req Request) (state.Question, error) {
	return Fallback(req), nil
}
