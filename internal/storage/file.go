package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Tiliavir/babytime/internal/model"
)

// FileStore keeps the profiles in <base>/babies.json and one JSON file per
// day under <base>/<babyID>/YYYY/MM/DD.json.
type FileStore struct {
	base string
}

// babiesFile is the on-disk shape of babies.json.
type babiesFile struct {
	Selected string       `json:"selected,omitempty"`
	Babies   []model.Baby `json:"babies"`
}

// NewFileStore returns a FileStore rooted at base. Directories are created
// on first write.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// Base returns the root directory.
func (s *FileStore) Base() string { return s.base }

// BabyDir returns the directory holding one baby's day files.
func (s *FileStore) BabyDir(babyID string) string {
	return filepath.Join(s.base, babyID)
}

// DayPath returns the path of a baby's JSON file for the given date.
func (s *FileStore) DayPath(babyID string, t time.Time) string {
	return filepath.Join(s.BabyDir(babyID), t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

func (s *FileStore) babiesPath() string {
	return filepath.Join(s.base, "babies.json")
}

func (s *FileStore) loadBabies() (babiesFile, error) {
	var bf babiesFile
	if _, err := readJSON(s.babiesPath(), &bf); err != nil {
		return babiesFile{}, err
	}
	if bf.Babies == nil {
		bf.Babies = []model.Baby{}
	}
	return bf, nil
}

// Babies returns every stored profile, oldest first.
func (s *FileStore) Babies(_ context.Context) ([]model.Baby, error) {
	bf, err := s.loadBabies()
	if err != nil {
		return nil, err
	}
	sortBabies(bf.Babies)
	return bf.Babies, nil
}

// SaveBaby inserts or replaces a profile in babies.json.
func (s *FileStore) SaveBaby(_ context.Context, baby model.Baby) error {
	if err := validBabyID(baby.ID); err != nil {
		return err
	}
	bf, err := s.loadBabies()
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(bf.Babies, func(b model.Baby) bool { return b.ID == baby.ID }); i >= 0 {
		bf.Babies[i] = baby
	} else {
		bf.Babies = append(bf.Babies, baby)
	}
	return writeJSON(s.babiesPath(), bf)
}

// DeleteBaby removes the profile and its day directory. A deleted baby that
// was selected leaves no selection behind.
func (s *FileStore) DeleteBaby(_ context.Context, id string) error {
	if err := validBabyID(id); err != nil {
		return err
	}
	bf, err := s.loadBabies()
	if err != nil {
		return err
	}
	n := len(bf.Babies)
	bf.Babies = slices.DeleteFunc(bf.Babies, func(b model.Baby) bool { return b.ID == id })
	if len(bf.Babies) == n {
		return fmt.Errorf("baby %s: %w", id, ErrBabyNotFound)
	}
	if bf.Selected == id {
		bf.Selected = ""
	}
	if err := writeJSON(s.babiesPath(), bf); err != nil {
		return err
	}
	if err := os.RemoveAll(s.BabyDir(id)); err != nil {
		return fmt.Errorf("storage error removing %s: %w", s.BabyDir(id), err)
	}
	return nil
}

// SelectedBaby returns the selected ID from babies.json.
func (s *FileStore) SelectedBaby(_ context.Context) (string, error) {
	bf, err := s.loadBabies()
	if err != nil {
		return "", err
	}
	return bf.Selected, nil
}

// SelectBaby records id as the selected baby. An empty id clears it.
func (s *FileStore) SelectBaby(_ context.Context, id string) error {
	bf, err := s.loadBabies()
	if err != nil {
		return err
	}
	if id != "" && !slices.ContainsFunc(bf.Babies, func(b model.Baby) bool { return b.ID == id }) {
		return fmt.Errorf("baby %s: %w", id, ErrBabyNotFound)
	}
	bf.Selected = id
	return writeJSON(s.babiesPath(), bf)
}

// Days returns the day files of one baby.
func (s *FileStore) Days(babyID string) DayStore {
	return fileDays{store: s, babyID: babyID}
}

// Close is a no-op; files are not held open.
func (s *FileStore) Close() error { return nil }

type fileDays struct {
	store  *FileStore
	babyID string
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func (d fileDays) LoadDay(_ context.Context, day time.Time) (model.DayFile, error) {
	if err := validBabyID(d.babyID); err != nil {
		return model.DayFile{}, err
	}
	df := model.NewDayFile(day)
	found, err := readJSON(d.store.DayPath(d.babyID, day), &df)
	if err != nil {
		return model.DayFile{}, err
	}
	if !found {
		return model.NewDayFile(day), nil
	}
	normalizeDay(&df, day)
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func (d fileDays) SaveDay(_ context.Context, day time.Time, df model.DayFile) error {
	if err := validBabyID(d.babyID); err != nil {
		return err
	}
	normalizeDay(&df, day)
	return writeJSON(d.store.DayPath(d.babyID, day), df)
}

// readJSON decodes path into v. A missing file reports found=false. A file
// that does not parse is moved aside to <path>.corrupt and reported.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON writes v to path via a temp file and rename.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// normalizeDay fills the date label and replaces nil slices so the JSON
// always carries empty arrays.
func normalizeDay(df *model.DayFile, day time.Time) {
	if df.Date == "" {
		df.Date = day.Format(time.DateOnly)
	}
	if df.Feeds == nil {
		df.Feeds = []model.FeedEvent{}
	}
	if df.Sleeps == nil {
		df.Sleeps = []model.SleepEvent{}
	}
}
