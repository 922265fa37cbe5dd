package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnixMilli returns a humanized version of time given in unix millisecond. The zeroMsg is the string returned when
// the time is 0 and assumed to be not set.
func UnixMilli(unix int64, zeroMsg string, detail bool) string {
	if unix == 0 {
		return zeroMsg
	}

	if !detail {
		return humanize.Time(time.UnixMilli(unix))
	}

	relativeTime := humanize.Time(time.UnixMilli(unix))
	realTime := time.UnixMilli(unix).Format(time.RFC850)
	return fmt.Sprintf("%s (%s)", realTime, relativeTime)
}

// CredentialKind returns a title cased, colorized credential kind.
func CredentialKind(kind models.CredentialKind) string {
	// Because of how colorizing a string works we need to
	// do the manipulations on case first or else it will not work.
	toTitle := cases.Title(language.AmericanEnglish)
	toLower := cases.Lower(language.AmericanEnglish)
	state := toTitle.String(toLower.String(strings.ReplaceAll(string(kind), "_", " ")))

	switch kind {
	case models.CredentialKindUsernamePassword:
		return color.BlueString(state)
	case models.CredentialKindSecretText:
		return color.GreenString(state)
	default:
		return color.RedString(state)
	}
}
