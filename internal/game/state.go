package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// State is the answer of a players query.
// A nil Players means the upstream reply carried no player list at all,
// an empty non-nil slice means the server is online with nobody playing.
type State struct {
	Players []json.RawMessage
}

// HasPlayers reports whether the player list is present (possibly empty).
func (s *State) HasPlayers() bool {
	return s != nil && s.Players != nil
}

// Summary is the A2S_INFO subset exposed on /status.
type Summary struct {
	Name       string `json:"name"`
	Map        string `json:"map"`
	Game       string `json:"game"`
	Version    string `json:"version"`
	OS         string `json:"os"`
	Players    byte   `json:"players"`
	MaxPlayers byte   `json:"max_players"`
}

// Status combines the server summary with its current player list.
type Status struct {
	Server  Summary           `json:"server"`
	Players []json.RawMessage `json:"players"`
	Online  int               `json:"online"`
}

// decodePlayers converts whatever the query library returned for A2S_PLAYER
// into opaque records. It accepts a bare array or an object holding a
// "players" array; JSON null yields a nil slice.
func decodePlayers(v any) ([]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode players: %w", err)
	}

	return decodePlayersJSON(raw)
}

func decodePlayersJSON(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		players := []json.RawMessage{}
		if err := json.Unmarshal(raw, &players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		return players, nil

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		if val, ok := obj["players"]; ok {
			return decodePlayersJSON(val)
		}
		for key, val := range obj {
			if strings.EqualFold(key, "players") {
				return decodePlayersJSON(val)
			}
		}
		return nil, nil
	}

	return nil, fmt.Errorf("decode players: unexpected %q", raw[:1])
}
