package report

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed sql/*.sql
var queryFS embed.FS

// ErrQueryNotFound is returned when no definition exists for a name/version pair.
var ErrQueryNotFound = errors.New("named query not found")

// NamedQuery is a versioned SQL definition shipped with the binary.
type NamedQuery struct {
	Name    string
	Version int
	SQL     string
}

// LoadQuery reads sql/<name>.v<version>.sql.
func LoadQuery(name string, version int) (NamedQuery, error) {
	file := fmt.Sprintf("sql/%s.v%d.sql", name, version)
	raw, err := queryFS.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NamedQuery{}, fmt.Errorf("%w: %s v%d", ErrQueryNotFound, name, version)
		}
		return NamedQuery{}, err
	}
	return NamedQuery{
		Name:    name,
		Version: version,
		SQL:     strings.TrimSpace(string(raw)),
	}, nil
}
