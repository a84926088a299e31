package gateway

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/workhive/workhive-backend/internal/models"
)

// Instrument is the card the client pays a milestone with. Only the format
// is checked here; whether the charge goes through is the gateway's call.
type Instrument struct {
	CardNumber string `json:"card"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
}

var (
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvRe    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

func (i Instrument) Validate() *models.ValidationError {
	errs := models.NewValidationError()

	card := strings.ReplaceAll(strings.TrimSpace(i.CardNumber), " ", "")
	if card == "" {
		errs.Add("card", "Card number is required")
	} else if len(card) < 13 || len(card) > 19 || !luhnValid(card) {
		errs.Add("card", "Card number is invalid")
	}

	expiry := strings.TrimSpace(i.Expiry)
	if expiry == "" {
		errs.Add("expiry", "Expiry is required")
	} else {
		m := expiryRe.FindStringSubmatch(expiry)
		if m == nil {
			errs.Add("expiry", "Expiry must be MM/YY")
		} else if expired(m[1], m[2], time.Now()) {
			errs.Add("expiry", "Card is expired")
		}
	}

	if cvv := strings.TrimSpace(i.CVV); !cvvRe.MatchString(cvv) {
		errs.Add("cvv", "CVV must be 3 or 4 digits")
	}

	return errs
}

func luhnValid(card string) bool {
	sum := 0
	double := false
	for i := len(card) - 1; i >= 0; i-- {
		c := card[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func expired(mm, yy string, now time.Time) bool {
	exp, err := time.Parse("01/06", mm+"/"+yy)
	if err != nil {
		return true
	}
	// valid through the end of the expiry month
	endOfMonth := exp.AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}

// Gateway authorizes a charge against an instrument. Implementations must
// not mutate any marketplace state.
type Gateway interface {
	Authorize(ctx context.Context, instrument Instrument, amount int64) (bool, error)
}
