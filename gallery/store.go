package gallery

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"attendance/config"
	"attendance/faces"
	"attendance/models"
	"attendance/utils"
)

// Identity is one known person, immutable once the snapshot is built
type Identity struct {
	Name       string
	Class      string
	Descriptor faces.Descriptor
	SourcePath string
}

// Snapshot is the gallery at a point in time. Identities keep directory walk
// order (class folder, then file name, both lexicographic) - that order is
// the documented tie-break order for classification. Snapshots are never
// mutated after Build, only replaced wholesale.
type Snapshot struct {
	Identities []Identity
	BuiltAt    time.Time
}

// Store scans the two-level gallery directory convention
// root/<class>/<name>.{png,jpg,jpeg} and publishes immutable snapshots.
type Store struct {
	root string
	rec  faces.Recognizer
	snap atomic.Pointer[Snapshot]

	Confidence  float64 // minimum detector confidence, exclusive
	FaceSize    int
	StrictNames bool // fail the scan on duplicate identity names
	// Persist descriptors and image paths onto matching student rows
	PersistDescriptors bool
}

func NewStore(root string, rec faces.Recognizer) *Store {
	s := &Store{
		root:        root,
		rec:         rec,
		Confidence:  config.FACE_CONFIDENCE,
		FaceSize:    config.FACE_SIZE,
		StrictNames: config.GALLERY_STRICT_NAMES,
	}
	s.snap.Store(&Snapshot{BuiltAt: time.Now()})
	return s
}

// Current returns the live snapshot. Lock-free: callers get whatever
// snapshot was published at call time, in full.
func (s *Store) Current() *Snapshot {
	return s.snap.Load()
}

// Reload builds a brand-new snapshot from the directory and swaps it in with
// a single atomic pointer store, so in-flight classifications always see
// either the old or the new gallery, never a mix. A missing root directory
// degrades to an empty snapshot (everyone classifies as Unknown).
func (s *Store) Reload() (*Snapshot, error) {
	snap, err := s.build()
	if err != nil {
		return nil, err
	}
	s.snap.Store(snap)
	log.Printf("Gallery loaded: %d known identities", len(snap.Identities))
	if s.PersistDescriptors {
		s.persist(snap)
	}
	return snap, nil
}

func (s *Store) build() (*Snapshot, error) {
	snap := &Snapshot{BuiltAt: time.Now()}
	classes, err := os.ReadDir(s.root)
	if err != nil {
		log.Printf("Gallery directory %s unavailable: %v", s.root, err)
		return snap, nil
	}
	index := map[string]int{}
	for _, classDir := range classes {
		if !classDir.IsDir() {
			continue
		}
		className := classDir.Name()
		files, err := os.ReadDir(filepath.Join(s.root, className))
		if err != nil {
			log.Printf("Cannot read class folder %s: %v", className, err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !isImageFile(file.Name()) {
				continue
			}
			path := filepath.Join(s.root, className, file.Name())
			name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			desc, ok := s.buildDescriptor(path)
			if !ok {
				continue
			}
			identity := Identity{
				Name:       name,
				Class:      className,
				Descriptor: desc,
				SourcePath: path,
			}
			if prev, exists := index[name]; exists {
				if s.StrictNames {
					return nil, fmt.Errorf("duplicate identity %q: %s and %s",
						name, snap.Identities[prev].SourcePath, path)
				}
				log.Printf("Duplicate identity %q: %s replaces %s",
					name, path, snap.Identities[prev].SourcePath)
				snap.Identities[prev] = identity
				continue
			}
			index[name] = len(snap.Identities)
			snap.Identities = append(snap.Identities, identity)
		}
	}
	return snap, nil
}

// buildDescriptor runs detect-crop-resize-embed for one gallery image.
// Every failure is local: log with the path and move on.
func (s *Store) buildDescriptor(path string) (faces.Descriptor, bool) {
	img, err := utils.LoadImage(path)
	if err != nil {
		log.Printf("Cannot load gallery image %s: %v", path, err)
		return nil, false
	}
	detections, err := s.rec.Detect(img)
	if err != nil {
		log.Printf("Detection failed for %s: %v", path, err)
		return nil, false
	}
	best := -1
	for i, d := range detections {
		if best < 0 || d.Confidence > detections[best].Confidence {
			best = i
		}
	}
	if best < 0 || detections[best].Confidence <= s.Confidence {
		log.Printf("No confident face in %s, skipping", path)
		return nil, false
	}
	crop := utils.CropFace(img, detections[best].Rect, s.FaceSize)
	if crop == nil {
		log.Printf("Degenerate face box in %s, skipping", path)
		return nil, false
	}
	desc, err := s.rec.Embed(crop)
	if err != nil {
		log.Printf("Embedding failed for %s: %v", path, err)
		return nil, false
	}
	return desc, true
}

func (s *Store) persist(snap *Snapshot) {
	for _, identity := range snap.Identities {
		student, found := models.StudentFindByName(identity.Name)
		if !found {
			continue
		}
		blob := utils.Float32ArrayToByteArray(identity.Descriptor)
		if err := student.SetDescriptor(blob); err != nil {
			log.Printf("Cannot persist descriptor for %s: %v", identity.Name, err)
		}
	}
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
