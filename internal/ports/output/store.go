package output

import "langmerge/internal/domain/entities"

// TranslationStore reads and writes translation trees.
type TranslationStore interface {
	// Discover returns the deduplicated, sorted set of paths, relative to
	// their root, at which the target file exists under any of roots.
	Discover(roots ...string) ([]string, error)
	// Load returns an empty mapping and a nil error when path does not exist.
	// Any other failure yields an empty mapping and a *domain.LoadError.
	Load(path string) (entities.Mapping, error)
	Save(path string, m entities.Mapping) error
	SaveMeta(path string, meta entities.PackMeta) error
}
