package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Comment struct {
	ID          int64   `json:"id"`
	Text        string  `json:"text"`
	Choice      *Choice `json:"choice"`
	TimestampMs int64   `json:"timestampMs"`
}

// CommentLog is an append-only feed ordered by insertion. Ids keep growing
// across Clear. CommentLog is not safe for concurrent use.
type CommentLog struct {
	maxLength int
	lastID    int64
	items     []Comment
}

// NewCommentLog limits comment length in runes; maxLength <= 0 disables the
// limit.
func NewCommentLog(maxLength int) *CommentLog {
	return &CommentLog{maxLength: maxLength}
}

// Validate trims text and checks it would be accepted by Append.
func (l *CommentLog) Validate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComment
	}
	if l.maxLength > 0 && utf8.RuneCountInString(text) > l.maxLength {
		return "", ErrCommentTooLong
	}
	return text, nil
}

func (l *CommentLog) Append(text string, choice *Choice, now time.Time) (Comment, error) {
	text, err := l.Validate(text)
	if err != nil {
		return Comment{}, err
	}
	if choice != nil && !choice.Valid() {
		return Comment{}, ErrInvalidChoice
	}
	l.lastID++
	c := Comment{
		ID:          l.lastID,
		Text:        text,
		Choice:      cloneChoice(choice),
		TimestampMs: now.UnixMilli(),
	}
	l.items = append(l.items, c)
	return c, nil
}

// ListAll returns the feed oldest first.
func (l *CommentLog) ListAll() []Comment {
	out := make([]Comment, len(l.items))
	for i, c := range l.items {
		c.Choice = cloneChoice(c.Choice)
		out[i] = c
	}
	return out
}

func (l *CommentLog) Len() int {
	return len(l.items)
}

func (l *CommentLog) Clear() {
	l.items = nil
}

func cloneChoice(c *Choice) *Choice {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
