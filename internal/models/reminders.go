package models

// Reminder is a recurring fixed expense the bot nags about while the
// day of month falls inside DateRange (inclusive, e.g. "5-10").
type Reminder struct {
	Desc      string `yaml:"desc"`
	MainType  string `yaml:"main_type"`
	SubType   string `yaml:"sub_type"`
	DateRange string `yaml:"date_range"`
}

// CreditCard is one row of the credit-card block in the monthly sheet
// (columns T through W).
type CreditCard struct {
	Name    string
	DueDate string
	Amount  string
	Status  string
}
