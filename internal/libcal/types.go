package libcal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// numericID is a LibCal identifier.  The API reports IDs as JSON numbers
// on most endpoints and as digit strings on some; both are accepted,
// anything else is a decode error.
type numericID string

func (n *numericID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = ""
			return nil
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("libcal: invalid id %q", string(b))
	}
	*n = numericID(strconv.FormatInt(v, 10))
	return nil
}

// opaqueID is a LibCal booking or patron identifier.  Booking IDs such as
// "cs_AbC901" are not numeric, so the value is kept as reported; a JSON
// number is accepted and formatted as its digits.
type opaqueID string

func (o *opaqueID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = opaqueID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("libcal: invalid id %s", string(b))
	}
	*o = opaqueID(n.String())
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type apiErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	StatusCode  int    `json:"status_code"`
}

type namedRef struct {
	ID   numericID `json:"id"`
	Name string    `json:"name"`
}

type locationRef struct {
	LID  numericID `json:"lid"`
	Name string    `json:"name"`
}

type categoryRef struct {
	CID  numericID `json:"cid"`
	Name string    `json:"name"`
}

type space struct {
	ID          numericID    `json:"id"`
	Name        string       `json:"name"`
	Capacity    int          `json:"capacity"`
	ZoneID      numericID    `json:"zone_id"`
	Location    *locationRef `json:"location"`
	Category    *categoryRef `json:"category"`
	Amenities   []namedRef   `json:"amenities"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
}

type availabilitySlot struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Available *bool    `json:"available"`
	BookingID opaqueID `json:"booking_id"`
}

type spaceAvailability struct {
	SpaceID numericID          `json:"space_id"`
	Date    string             `json:"date"`
	Slots   []availabilitySlot `json:"slots"`
}

type patron struct {
	ID    opaqueID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
}

type booking struct {
	ID        opaqueID  `json:"id"`
	SpaceID   numericID `json:"space_id"`
	SpaceName string    `json:"space_name"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Date      string    `json:"date"`
	Patron    patron    `json:"patron"`
	Status    string    `json:"status"`
	Created   string    `json:"created"`
	Purpose   string    `json:"purpose"`
}

type reserveItem struct {
	ID int64  `json:"id"`
	To string `json:"to"`
}

type reserveRequest struct {
	Start    string        `json:"start"`
	FName    string        `json:"fname"`
	LName    string        `json:"lname"`
	Email    string        `json:"email"`
	Bookings []reserveItem `json:"bookings"`
	Test     bool          `json:"test,omitempty"`
}

type reserveResponse struct {
	BookingID opaqueID `json:"booking_id"`
	Success   *bool    `json:"success"`
	Message   string   `json:"message"`
	Errors    []string `json:"errors"`
}

type cancelResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type cancelItem struct {
	BookingID opaqueID `json:"booking_id"`
	Cancelled bool     `json:"cancelled"`
	Error     string   `json:"error"`
}
