package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/opencatalog/blogext/models"
)

func TestInitSchemaIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:initschema?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := InitSchema(db, &models.Post{}); err != nil {
			t.Fatalf("init schema run %d failed: %v", i, err)
		}
	}

	if !db.Migrator().HasTable(&models.Post{}) {
		t.Fatal("posts table missing after init")
	}
	if err := db.Create(&models.Post{Title: "t", Content: "c", Author: "a"}).Error; err != nil {
		t.Fatalf("insert after repeated init failed: %v", err)
	}
}
