package storage

import "attendance/config"

// API is the destination for export snapshots
type API interface {
	Save(name string, data []byte) error
}

// ForExports returns the configured export destination: local disk always,
// mirrored to S3 when a bucket is configured.
func ForExports() API {
	disk := NewDiskStorage(config.EXPORT_DIR)
	if config.EXPORT_S3_BUCKET == "" {
		return disk
	}
	return multiStorage{disk, NewS3Storage(config.EXPORT_S3_BUCKET, config.EXPORT_S3_REGION)}
}

type multiStorage []API

func (m multiStorage) Save(name string, data []byte) error {
	var firstErr error
	for _, s := range m {
		if err := s.Save(name, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
