package persist

import "fmt"

// Collection groups tokens under a human-readable name. The creator of record
// is whoever minted into the name first; later minters add tokens to it but
// never change the creator or creation time.
type Collection struct {
	Name         string       `json:"name"`
	Creator      Address      `json:"creator"`
	CreationTime CreationTime `json:"created_at"`
	TokenIDs     []TokenID    `json:"token_ids"`
}

// ErrCollectionNotFoundByName is returned when a collection is not found by its name
type ErrCollectionNotFoundByName struct {
	Name string
}

func (e ErrCollectionNotFoundByName) Error() string {
	return fmt.Sprintf("collection not found by name: %s", e.Name)
}
