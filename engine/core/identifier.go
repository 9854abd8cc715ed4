package core

import "fmt"

// InvalidID is never handed out by Identifiers.
const InvalidID uint32 = 0

// Identifiers hands out integer handles that stay bound to one owner for the
// lifetime of the process. Released slots are cleared but never reused, so a
// handle can always be used as an identity key.
type Identifiers struct {
	owners []interface{}
}

func NewIdentifiers() *Identifiers {
	// slot 0 backs InvalidID
	return &Identifiers{owners: make([]interface{}, 1, 100)}
}

func (ids *Identifiers) AcquireNewID(owner interface{}) uint32 {
	ids.owners = append(ids.owners, owner)
	return uint32(len(ids.owners) - 1)
}

func (ids *Identifiers) Owner(id uint32) (interface{}, bool) {
	if id == InvalidID || int(id) >= len(ids.owners) {
		return nil, false
	}
	owner := ids.owners[id]
	return owner, owner != nil
}

func (ids *Identifiers) ReleaseID(id uint32) error {
	length := uint32(len(ids.owners))
	if id == InvalidID || id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length-1)
	}
	ids.owners[id] = nil
	return nil
}
