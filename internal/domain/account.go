package domain

import "time"

type AccountID string

// AccountMetadata is the registry record for one account. ID and
// PublicKey are set at creation and never change afterwards; LastOpened
// is stamped every time the account's backend session is opened.
type AccountMetadata struct {
	ID         AccountID
	Name       string
	PublicKey  string
	AvatarCID  string
	CreatedAt  time.Time
	LastOpened time.Time
}

// MostRecentlyOpened picks the fallback account after a delete: the one
// with the strictly greatest LastOpened timestamp. On equal timestamps
// the earliest list entry wins, so the selection is reproducible for a
// given listing order.
func MostRecentlyOpened(accounts []AccountMetadata) (AccountMetadata, bool) {
	if len(accounts) == 0 {
		return AccountMetadata{}, false
	}

	selected := accounts[0]
	for _, account := range accounts[1:] {
		if account.LastOpened.After(selected.LastOpened) {
			selected = account
		}
	}

	return selected, true
}
