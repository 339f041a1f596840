package models

import "strings"

type Choice string

const (
	ChoiceInterested    Choice = "interested"
	ChoiceNeutral       Choice = "neutral"
	ChoiceNotInterested Choice = "not-interested"
)

func (c Choice) Valid() bool {
	switch c {
	case ChoiceInterested, ChoiceNeutral, ChoiceNotInterested:
		return true
	}
	return false
}

// ParseChoice accepts the wire form of a choice. Surrounding whitespace and
// letter case are ignored.
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidChoice
	}
	return c, nil
}

// ParseOptionalChoice maps a nil pointer to a nil choice, used for
// standalone comments.
func ParseOptionalChoice(s *string) (*Choice, error) {
	if s == nil {
		return nil, nil
	}
	c, err := ParseChoice(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
