package user

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// PluginNone is the plugin value forced onto every user received from the panel.
const PluginNone = "None"

// Key names the field used to index a user mapping.
type Key string

const (
	KeyID       Key = "id"
	KeyUserName Key = "user_name"
	KeyPasswd   Key = "passwd"
	KeyPort     Key = "port"
	KeyMethod   Key = "method"
)

var ErrUnsupportedKey = errors.New("unsupported user key")

// MissingFieldError is returned by Decode when a required key is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("user record is missing required field %q", e.Field)
}

// User is one account provisioned on the node.
type User struct {
	ID       int    `json:"id"`
	UserName string `json:"user_name"`
	// ss password
	Passwd string `json:"passwd"`
	Port   int    `json:"port"`
	// ss method
	Method string `json:"method"`
	// 1 = active
	Enable int `json:"enable"`

	U              int64 `json:"u"`
	D              int64 `json:"d"`
	TransferEnable int64 `json:"transfer_enable"`

	Plugin     string `json:"plugin"`
	PluginOpts string `json:"plugin_opts"`
}

// Decode builds a User from one panel record.
// Numeric fields accept any whole JSON number, including 1e12 or 100.0.
// Plugin fields keep non-string values as their raw JSON text.
func Decode(raw []byte) (*User, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %v", err)
	}

	u := &User{}
	steps := []struct {
		name     string
		decode   func(json.RawMessage) error
		required bool
	}{
		{"id", intInto(&u.ID), true},
		{"user_name", stringInto(&u.UserName), false},
		{"passwd", stringInto(&u.Passwd), true},
		{"port", intInto(&u.Port), true},
		{"method", stringInto(&u.Method), true},
		{"enable", intInto(&u.Enable), true},
		{"u", int64Into(&u.U), true},
		{"d", int64Into(&u.D), true},
		{"transfer_enable", int64Into(&u.TransferEnable), true},
		{"plugin", textInto(&u.Plugin), false},
		{"plugin_opts", textInto(&u.PluginOpts), false},
	}
	for _, step := range steps {
		value, ok := fields[step.name]
		if !ok || string(value) == "null" {
			if step.required {
				return nil, &MissingFieldError{Field: step.name}
			}
			continue
		}

		if err := step.decode(value); err != nil {
			return nil, fmt.Errorf("invalid user field %s: %v", step.name, err)
		}
	}

	return u, nil
}

func stringInto(target *string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		return json.Unmarshal(raw, target)
	}
}

// textInto never fails: strings are unquoted, everything else is kept as json text.
func textInto(target *string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		if err := json.Unmarshal(raw, target); err != nil {
			*target = string(raw)
		}
		return nil
	}
}

func int64Into(target *int64) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		n, err := wholeNumber(raw)
		if err != nil {
			return err
		}
		*target = n
		return nil
	}
}

func intInto(target *int) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		n, err := wholeNumber(raw)
		if err != nil {
			return err
		}
		if int64(int(n)) != n {
			return fmt.Errorf("number %d overflows int", n)
		}
		*target = int(n)
		return nil
	}
}

func wholeNumber(raw json.RawMessage) (int64, error) {
	text := strings.TrimSpace(string(raw))
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("expect a number, but got %s", text)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("expect a whole number, but got %s", text)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("number %s overflows int64", text)
	}

	return int64(f), nil
}

// Available reports whether the user has quota left and is enabled.
func (u *User) Available() bool {
	return u.U+u.D < u.TransferEnable && u.Enable == 1
}

// Key returns the value of the named field as a string.
func (u *User) Key(k Key) (string, error) {
	switch k {
	case KeyID:
		return strconv.Itoa(u.ID), nil
	case KeyUserName:
		return u.UserName, nil
	case KeyPasswd:
		return u.Passwd, nil
	case KeyPort:
		return strconv.Itoa(u.Port), nil
	case KeyMethod:
		return u.Method, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKey, k)
	}
}

// Index maps users by fn. Later users win on duplicate keys.
func Index[K comparable](users []*User, fn func(*User) K) map[K]*User {
	m := make(map[K]*User, len(users))
	for _, u := range users {
		m[fn(u)] = u
	}

	return m
}
