package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Mongo struct {
	URI      string
	Database string
	// ConnectorName and CollectionSuffix together form
	// the target collection name.
	ConnectorName    string
	CollectionSuffix string
}

func (m *Mongo) setDefaults() {
	m.URI = gosettings.DefaultComparable(m.URI, "mongodb://localhost:27017")
	m.Database = gosettings.DefaultComparable(m.Database, "greynoise")
	m.ConnectorName = gosettings.DefaultComparable(m.ConnectorName, "greynoise_riot")
	m.CollectionSuffix = gosettings.DefaultComparable(m.CollectionSuffix, "_raw")
}

// Collection returns the target collection name.
func (m Mongo) Collection() string {
	return m.ConnectorName + m.CollectionSuffix
}

var (
	ErrMongoURINotValid   = errors.New("MongoDB URI is not valid")
	ErrDatabaseNameEmpty  = errors.New("database name is empty")
	ErrConnectorNameEmpty = errors.New("connector name is empty")
)

func (m Mongo) Validate() (err error) {
	if !strings.HasPrefix(m.URI, "mongodb://") &&
		!strings.HasPrefix(m.URI, "mongodb+srv://") {
		return fmt.Errorf("%w: %q must start with mongodb:// or mongodb+srv://",
			ErrMongoURINotValid, m.URI)
	}

	switch {
	case m.Database == "":
		return fmt.Errorf("%w", ErrDatabaseNameEmpty)
	case m.ConnectorName == "":
		return fmt.Errorf("%w", ErrConnectorNameEmpty)
	}

	return nil
}

func (m Mongo) String() string {
	return m.toLinesNode().String()
}

func (m Mongo) toLinesNode() *gotree.Node {
	node := gotree.New("MongoDB")
	node.Appendf("URI: %s", m.URI)
	node.Appendf("Database: %s", m.Database)
	node.Appendf("Collection: %s", m.Collection())
	return node
}

func (m *Mongo) read(r *reader.Reader) {
	m.URI = r.String("MONGO_URI", reader.ForceLowercase(false))
	m.Database = r.String("MONGO_DB", reader.ForceLowercase(false))
	m.ConnectorName = r.String("CONNECTOR_NAME", reader.ForceLowercase(false))
	m.CollectionSuffix = r.String("MONGO_SUFFIX", reader.ForceLowercase(false))
}
