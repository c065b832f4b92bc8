package messbill

import "github.com/xraph/messbill/id"

// ID is the primary identifier type for all Messbill entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
