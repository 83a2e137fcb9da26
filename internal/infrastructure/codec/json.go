// Package codec serializes session identities for the durable slot.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// JSON stores the identity as a plain JSON object with the fields
// id, name, email, role and avatar.
type JSON struct{}

var _ ports.IdentityCodec = JSON{}

func (JSON) Encode(ident domain.Identity) ([]byte, error) {
	data, err := json.Marshal(ident)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	return data, nil
}

func (JSON) Decode(data []byte) (domain.Identity, error) {
	var ident domain.Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return ident, nil
}
