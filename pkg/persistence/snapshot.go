package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ahmed8601/kahramana-site/pkg/cart"
)

const (
	// StorageKey names the snapshot entry.
	StorageKey = "kahramana_cart_v1"
	// Version is the current snapshot schema version.
	Version = 1
)

var (
	errMalformed       = errors.New("snapshot: malformed")
	errVersionMismatch = errors.New("snapshot: version mismatch")
)

// SessionKey namespaces the snapshot entry for one browser session.
func SessionKey(sessionID string) string {
	return StorageKey + ":" + sessionID
}

// Encode renders {"v":Version,"cart":{...}} keeping entry order.
func Encode(entries []cart.Entry) string {
	var b bytes.Buffer
	b.WriteString(`{"v":`)
	b.WriteString(strconv.Itoa(Version))
	b.WriteString(`,"cart":{`)
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `"%d":%d`, e.ItemID, e.Quantity)
	}
	b.WriteString(`}}`)
	return b.String()
}

// PeekVersion returns the schema version stored in raw.
func PeekVersion(raw string) (int, error) {
	var head struct {
		V *int `json:"v"`
	}
	if err := json.Unmarshal([]byte(raw), &head); err != nil {
		return 0, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if head.V == nil {
		return 0, fmt.Errorf("%w: missing version", errMalformed)
	}
	return *head.V, nil
}

// Snapshot is a version-matched snapshot before catalog filtering.
type Snapshot struct {
	Entries []cart.Entry
	Dropped int
}

// Decode parses a snapshot. It fails for anything that is not a
// version-matched object whose cart is an object. Entries with a key that is
// not an integer or a quantity that is not a positive integer are counted in
// Dropped and left out.
func Decode(raw string) (Snapshot, error) {
	var top struct {
		V    *int            `json:"v"`
		Cart json.RawMessage `json:"cart"`
	}
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if top.V == nil || *top.V != Version {
		return Snapshot{}, errVersionMismatch
	}
	if len(top.Cart) == 0 {
		return Snapshot{}, fmt.Errorf("%w: missing cart", errMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(top.Cart))
	tok, err := dec.Token()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Snapshot{}, fmt.Errorf("%w: cart is not an object", errMalformed)
	}

	// A repeated key keeps its first position and takes its last value.
	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", errMalformed, err)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", errMalformed, err)
		}

		key := keyTok.(string)
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	var out Snapshot
	for _, key := range keys {
		id, err := strconv.Atoi(key)
		qty, ok := quantity(values[key])
		if err != nil || !ok {
			out.Dropped++
			continue
		}
		out.Entries = append(out.Entries, cart.Entry{ItemID: id, Quantity: qty})
	}
	return out, nil
}

// quantity accepts a JSON number, or a string holding one, with a positive
// integral value.
func quantity(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), i > 0 && i <= cart.MaxQuantity
	}
	f, err := n.Float64()
	if err != nil || f <= 0 || f > cart.MaxQuantity || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
