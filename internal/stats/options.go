package stats

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Options tunes the statistics run.
type Options struct {
	GapHours           float64 `validate:"gt=0"`
	MinPhraseFreq      int     `validate:"min=1"`
	MaxNgram           int     `validate:"min=2,max=4"`
	TopWords           int     `validate:"min=1"`
	TopWordsPerPerson  int     `validate:"min=1"`
	TopNgrams          int     `validate:"min=1"`
	TopEmojis          int     `validate:"min=1"`
	TopEmojisPerPerson int     `validate:"min=1"`
	LongestMessages    int     `validate:"min=1"`
}

func DefaultOptions() Options {
	return Options{
		GapHours:           4.0,
		MinPhraseFreq:      3,
		MaxNgram:           3,
		TopWords:           20,
		TopWordsPerPerson:  15,
		TopNgrams:          15,
		TopEmojis:          15,
		TopEmojisPerPerson: 10,
		LongestMessages:    5,
	}
}

var validate = validator.New()

func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("validate options: %w", err)
	}
	return nil
}

// sessionGap converts GapHours to a duration.
func (o Options) sessionGap() time.Duration {
	return time.Duration(o.GapHours * float64(time.Hour))
}
