package main

import (
	"log"
	"strings"
	"time"

	"attendance/auth"
	"attendance/camera"
	"attendance/config"
	"attendance/db"
	"attendance/export"
	"attendance/faces"
	"attendance/gallery"
	"attendance/handlers"
	"attendance/ledger"
	"attendance/models"
	"attendance/pipeline"
	"attendance/storage"
	"attendance/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 86400 // 1 day
)

func main() {
	db.Init()
	models.Init()

	rec := faces.Init(config.FACE_MODELS_DIR)
	store := gallery.NewStore(config.GALLERY_DIR, rec)
	store.PersistDescriptors = true
	if _, err := store.Reload(); err != nil {
		log.Fatalf("Gallery scan failed: %v", err)
	}

	book := ledger.New(config.CSV_FILE)
	book.OnChange(handlers.BroadcastAttendanceChanged)

	source := camera.NewFFmpegSource(config.CAMERA_INPUT, config.CAMERA_FORMAT)
	pipe := pipeline.New(source, rec, store, book)
	pipe.Start()

	exporter := export.NewScheduler(book, storage.ForExports(), config.EXPORT_HOUR, config.EXPORT_MINUTE)
	exporter.Start()

	handlers.Init(store, book, pipe, exporter)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/stream/frame"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Login is the only public endpoint
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/logout", handlers.UserLogout)
	// Attendance
	authRouter.GET("/attendance/today", handlers.AttendanceToday)
	authRouter.GET("/attendance/date", handlers.AttendanceForDate)
	authRouter.POST("/export/now", handlers.ExportNow)
	// Gallery management
	authRouter.POST("/student/add", handlers.StudentAdd)
	authRouter.POST("/gallery/reload", handlers.GalleryReload)
	// Live camera feed
	authRouter.GET("/stream/frame", handlers.StreamFrame)
	authRouter.GET("/stream/status", handlers.StreamStatus)
	authRouter.GET("/ws", handlers.WebSocket)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	// Worker first, capture device after it has quiesced
	exporter.Stop()
	pipe.Stop()
	source.Release()
	log.Fatalf("Server stopped: %v", err)
}
