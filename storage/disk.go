package storage

import (
	"os"
	"path/filepath"
	"sync"
)

type DiskStorage struct {
	// BaseDir is a directory writable by the current process
	BaseDir   string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(baseDir string) *DiskStorage {
	return &DiskStorage{
		BaseDir: baseDir,
		dirs:    make(map[string]bool, 10),
	}
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	s.dirs[dir] = true
	return os.MkdirAll(dir, 0777)
}

func (s *DiskStorage) Save(name string, data []byte) error {
	fileName := filepath.Join(s.BaseDir, name)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return err
	}
	return os.WriteFile(fileName, data, 0644)
}
