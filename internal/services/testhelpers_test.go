package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rugfork/internal/database"
	"rugfork/internal/models"
	"rugfork/internal/repository"
)

const (
	sol        = 1_000_000_000
	wrappedSOL = "So11111111111111111111111111111111111111112"
	usdcMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	repo *repository.Repository
	ctx  context.Context
}

func newFixture(t *testing.T) *fixture {
	return &fixture{repo: repository.NewRepository(setupTestDB(t)), ctx: context.Background()}
}

func (f *fixture) user(t *testing.T, wallet string) *models.User {
	t.Helper()
	u := &models.User{WalletAddress: wallet, Username: "u_" + wallet, Level: 1, LastActiveAt: time.Now().UTC()}
	require.NoError(t, f.repo.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) pool(t *testing.T, mint string, creator uint) *models.Pool {
	t.Helper()
	p := &models.Pool{TokenMint: mint, TokenName: mint, TokenSymbol: "TKN", CreatorID: creator, IsActive: true}
	require.NoError(t, f.repo.CreatePool(f.ctx, p))
	return p
}

func (f *fixture) reload(t *testing.T, userID uint) *models.User {
	t.Helper()
	u, err := f.repo.GetUserByID(f.ctx, userID)
	require.NoError(t, err)
	return u
}

type adminList []string

func (a adminList) IsAdmin(wallet string) bool {
	for _, w := range a {
		if w == wallet {
			return true
		}
	}
	return false
}
