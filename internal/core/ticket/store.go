package ticket

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound indicates no ticket exists for the requested key.
var ErrNotFound = errors.New("ticket not found")

// ticketGlob matches every ticket file under the tickets directory,
// including source subdirectories like tickets/local or tickets/github.
const ticketGlob = "tickets/**/*.md"

// Store reads and writes ticket files under a project root.
type Store struct {
	root string
}

// NewStore creates a store rooted at the project directory.
func NewStore(projectRoot string) *Store {
	return &Store{root: projectRoot}
}

// TicketsDir returns the directory holding ticket files.
func (s *Store) TicketsDir() string {
	return filepath.Join(s.root, "tickets")
}

// List returns every parseable ticket sorted by horizon urgency then
// priority. Files that fail to parse are skipped.
func (s *Store) List() ([]Ticket, error) {
	fsys := os.DirFS(s.root)
	matches, err := doublestar.Glob(fsys, ticketGlob)
	if err != nil {
		return nil, fmt.Errorf("glob tickets: %w", err)
	}
	sort.Strings(matches)

	var tickets []Ticket
	for _, rel := range matches {
		path := filepath.Join(s.root, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		t, err := Parse(string(data))
		if err != nil {
			continue
		}
		t.Path = path
		tickets = append(tickets, t)
	}

	SortTickets(tickets)
	return tickets, nil
}

// Load returns the ticket with the given key (case-insensitive).
func (s *Store) Load(key string) (Ticket, error) {
	tickets, err := s.List()
	if err != nil {
		return Ticket{}, err
	}
	for _, t := range tickets {
		if strings.EqualFold(t.Key, key) {
			return t, nil
		}
	}
	return Ticket{}, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Save writes a ticket back to disk atomically: content goes to a temp file
// in the same directory which is then renamed over the target, so a reader
// never observes a half-written ticket.
func (s *Store) Save(t Ticket) error {
	path := t.Path
	if path == "" {
		path = s.pathFor(t)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create tickets dir: %w", err)
	}

	content, err := t.Render()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ticket-*")
	if err != nil {
		return fmt.Errorf("create temp ticket: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write ticket: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close ticket: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename ticket: %w", err)
	}
	return nil
}

// PathFor returns the on-disk location a ticket will be saved to: its own
// Path when already persisted, a derived one otherwise.
func (s *Store) PathFor(t Ticket) string {
	if t.Path != "" {
		return t.Path
	}
	return s.pathFor(t)
}

// pathFor derives the on-disk location for a ticket that has not been
// persisted yet. Local tickets live under tickets/local, sourced tickets
// under tickets/<source>.
func (s *Store) pathFor(t Ticket) string {
	sub := t.Source
	if sub == "" {
		sub = "local"
	}
	keyClean := strings.NewReplacer("#", "", "/", "_").Replace(t.Key)
	name := fmt.Sprintf("%s_%s.md", keyClean, SanitizeName(t.Title))
	return filepath.Join(s.TicketsDir(), sub, name)
}

var keyNumPattern = regexp.MustCompile(`^L-(\d+)$`)

// NextLocalKey returns the next sequential local ticket key (L-0001 style).
func (s *Store) NextLocalKey() (string, error) {
	tickets, err := s.List()
	if err != nil {
		return "", err
	}

	maxNum := 0
	for _, t := range tickets {
		m := keyNumPattern.FindStringSubmatch(t.Key)
		if m == nil {
			continue
		}
		var n int
		_, _ = fmt.Sscanf(m[1], "%d", &n)
		if n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("L-%04d", maxNum+1), nil
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeName converts a title into a filename-safe slug.
func SanitizeName(name string) string {
	s := nonAlnum.ReplaceAllString(name, "_")
	s = strings.Trim(s, "_")
	s = strings.ToLower(s)
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "_")
	}
	return s
}
