package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	identityPostgres "github.com/frahmantamala/performance-dashboard/internal/identity/postgres"
	"github.com/frahmantamala/performance-dashboard/internal/storage/database"
	"github.com/frahmantamala/performance-dashboard/internal/storage/kv"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Suite")
}

var _ = Describe("Database", func() {
	var (
		ctx  context.Context
		cfg  internal.DatabaseConfig
		conn *sqlx.DB
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = internal.DatabaseConfig{
			Driver:          internal.DriverSQLite,
			Source:          "file:" + filepath.Join(GinkgoT().TempDir(), "dashboard.db"),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
		}

		var err error
		conn, err = database.Open(cfg)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(conn.Close)
	})

	It("should map configured drivers", func() {
		name, err := database.DriverName(internal.DriverPostgres)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("pgx"))

		name, err = database.DriverName(internal.DriverSQLite)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("sqlite3"))

		_, err = database.DriverName("oracle")
		Expect(err).To(HaveOccurred())
	})

	It("should apply and roll back the embedded migrations", func() {
		Expect(database.Migrate(ctx, conn.DB, cfg.Driver, "up", "")).To(Succeed())

		var tables []string
		Expect(conn.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('identities', 'identity_badges', 'kv_entries') ORDER BY name`)).To(Succeed())
		Expect(tables).To(Equal([]string{"identities", "identity_badges", "kv_entries"}))

		Expect(database.Migrate(ctx, conn.DB, cfg.Driver, "down", "")).To(Succeed())
		tables = nil
		Expect(conn.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`)).To(Succeed())
		Expect(tables).To(BeEmpty())
	})

	It("should serve the gorm repository and the sql kv store from one handle", func() {
		Expect(database.Migrate(ctx, conn.DB, cfg.Driver, "up", "")).To(Succeed())

		gdb, err := database.Gorm(conn.DB, cfg.Driver)
		Expect(err).NotTo(HaveOccurred())

		repo := identityPostgres.NewIdentityRepository(gdb)
		created, err := identity.Seed(ctx, repo, identity.DemoIdentities())
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(Equal(5))

		found, err := repo.FindByEmail(ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal("user-4"))

		store := kv.NewSQLStore(conn)
		Expect(store.Set(ctx, "user", []byte(`{"id":"user-4"}`))).To(Succeed())
		v, ok, err := store.Get(ctx, "user")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal(`{"id":"user-4"}`))
	})

	It("should reject unknown drivers", func() {
		_, err := database.Gorm(conn.DB, "oracle")
		Expect(err).To(HaveOccurred())
		Expect(database.Migrate(ctx, conn.DB, "oracle", "up", "")).NotTo(Succeed())
	})
})
