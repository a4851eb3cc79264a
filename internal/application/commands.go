package application

import (
	"encoding/json"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

// UpdateAccountCommand is a partial metadata update. Empty fields are
// treated as absent and never overwrite a stored value.
type UpdateAccountCommand struct {
	AccountID   domain.AccountID
	AccountName string
	PublicKey   string
	AvatarCID   string
}

// OptionUpdate is a single-key merge-patch against an account's
// persistent options record.
type OptionUpdate struct {
	Kind    domain.OptionKind
	Payload json.RawMessage
}
