// Package session carries the CP query a load belongs to, so completions of
// superseded requests can be recognised and dropped.
package session

import (
	"fmt"
	"strings"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeShadow
)

func (m Mode) String() string {
	if m == ModeShadow {
		return "shadow"
	}
	return "normal"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "shadow", "purified", "shadow/purified":
		return ModeShadow, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode %q (want normal or shadow)", s)
	}
}

// Context is an immutable snapshot of one CP request. The zero Context
// belongs to no request.
type Context struct {
	CP    int
	Mode  Mode
	Token uint64
}

func (c Context) Valid() bool {
	return c.Token != 0
}

// Same reports whether other was issued for the same request as c.
func (c Context) Same(other Context) bool {
	return c.Valid() && c.Token == other.Token
}

func (c Context) WithMode(m Mode) Context {
	c.Mode = m
	return c
}

// Issuer hands out request tokens in increasing order.
type Issuer struct {
	last uint64
}

func (i *Issuer) Issue(cp int, mode Mode) Context {
	i.last++
	return Context{CP: cp, Mode: mode, Token: i.last}
}
