package main

import (
	"github.com/opencatalog/blogext/config"
	"github.com/opencatalog/blogext/models"
	"github.com/opencatalog/blogext/routes"
	"github.com/opencatalog/blogext/storage"
	"github.com/opencatalog/blogext/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Post{})

	store, err := storage.NewUploadStore(cfg.UploadDir)
	if err != nil {
		utils.Sugar.Fatalf("upload store init failed: %v", err)
	}

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting blog extension on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
