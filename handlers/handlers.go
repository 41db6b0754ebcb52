package handlers

import (
	"attendance/export"
	"attendance/gallery"
	"attendance/ledger"
	"attendance/pipeline"
)

var (
	galleryStore *gallery.Store
	book         *ledger.Ledger
	pipe         *pipeline.Pipeline
	exporter     *export.Scheduler
)

// Init wires the shared components into the handler package
func Init(store *gallery.Store, l *ledger.Ledger, p *pipeline.Pipeline, e *export.Scheduler) {
	galleryStore = store
	book = l
	pipe = p
	exporter = e
}
