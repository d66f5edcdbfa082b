package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/bootstrap"
	"github.com/Justin66666/teachersLoungeBE/internal/config"
	searchService "github.com/Justin66666/teachersLoungeBE/internal/modules/search/service"
	userRepository "github.com/Justin66666/teachersLoungeBE/internal/modules/user/repository"
	userService "github.com/Justin66666/teachersLoungeBE/internal/modules/user/service"
	"github.com/Justin66666/teachersLoungeBE/internal/server"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"github.com/Justin66666/teachersLoungeBE/pkg/mailer"
	"github.com/Justin66666/teachersLoungeBE/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedSchools(db); err != nil {
		log.Fatalf("failed to seed schools: %v", err)
	}
	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	files, err := newFileStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}

	index := newSearchIndex(cfg)
	if index != nil {
		go reindexUsers(db, index)
	}

	srv := server.NewServer(server.Deps{
		Config: cfg,
		DB:     db,
		Redis:  newRedisClient(cfg.RedisURL),
		Files:  files,
		Mailer: newMailer(cfg),
		Search: index,
	})

	log.Printf("Server listening on port %s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	}
	return storage.NewS3Storage(context.Background(), storage.S3Options{
		Bucket:     cfg.S3Bucket,
		Region:     cfg.S3Region,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		PresignTTL: cfg.PresignTTL,
	})
}

// newRedisClient returns nil when Redis is not configured or not reachable;
// OTP codes and conversation streams then stay in process memory.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, using in-memory OTP store and message broker")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("invalid REDIS_URL, falling back to memory: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, falling back to memory: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}

func newMailer(cfg *config.Config) mailer.Sender {
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, codes will be written to the log")
		return mailer.NewLogSender()
	}
	return mailer.NewSMTPSender(mailer.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.EmailFrom,
	})
}

// newSearchIndex returns nil without MEILISEARCH_HOST; user search then uses SQL only.
func newSearchIndex(cfg *config.Config) searchService.UserIndex {
	host := cfg.MeiliSearchHost
	if host == "" {
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}

	client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	return searchService.NewMeiliUserIndex(client)
}

// reindexUsers backfills accounts created before the index was configured.
func reindexUsers(db *gorm.DB, index searchService.UserIndex) {
	users := userService.NewUserService(userRepository.NewUserRepository(db), nil, index)
	count, err := users.ReindexAll(context.Background())
	if err != nil {
		log.Printf("user reindex stopped after %d accounts: %v", count, err)
		return
	}
	log.Printf("Indexed %d users for search", count)
}
