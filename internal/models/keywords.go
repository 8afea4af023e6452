package models

// KeywordRule maps trigger words to a category pair. Rules are evaluated in
// the order they appear in the config file; the first match wins.
type KeywordRule struct {
	Name     string   `yaml:"name"`
	MainType string   `yaml:"main_type"`
	SubType  string   `yaml:"sub_type"`
	Keywords []string `yaml:"keywords"`
}

// KeywordsConfig is the structure of the keywords YAML file.
type KeywordsConfig struct {
	Rules []KeywordRule `yaml:"rules"`
}
