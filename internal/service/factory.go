package service

import (
	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/core/config"
)

type Services struct {
	gen      llm.Generator
	llmCfg   config.LLMConfig
	features config.Features
}

func NewServices(gen llm.Generator, llmCfg config.LLMConfig, features config.Features) *Services {
	return &Services{
		gen:      gen,
		llmCfg:   llmCfg,
		features: features,
	}
}

func (s *Services) Stories() StoryService {
	return NewStoryService(s.gen, s.llmCfg.MaxTokens)
}

func (s *Services) Editor() EditorService {
	return NewEditorService(s.gen, s.llmCfg.AnalysisMaxTokens)
}

func (s *Services) Versions() VersionService {
	return NewVersionService()
}

func (s *Services) Invest() InvestService {
	return NewInvestService(s.gen, s.features.AIValidation)
}

func (s *Services) Suggestions() SuggestionService {
	return NewSuggestionService(s.gen, s.features.AISuggestions)
}

func (s *Services) Export() ExportService {
	return NewExportService()
}
