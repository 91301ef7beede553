package services

import (
	"testing"

	"nft-market-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")

	wallet, err := svc.GetOrCreate(db, user.ID, asset.ID)
	require.NoError(t, err)
	requireDecimal(t, "0", wallet.Amount)

	again, err := svc.GetOrCreate(db, user.ID, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)
}

func TestWalletDebitAndCredit(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("100"))

	require.NoError(t, svc.Debit(db, wallet.ID, dec("37.5")))
	require.NoError(t, svc.Credit(db, wallet.ID, dec("12.5")))

	var got models.UserWallet
	require.NoError(t, db.First(&got, "id = ?", wallet.ID).Error)
	requireDecimal(t, "75", got.Amount)
}

func TestWalletDebitInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("10"))

	err := svc.Debit(db, wallet.ID, dec("10.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var got models.UserWallet
	require.NoError(t, db.First(&got, "id = ?", wallet.ID).Error)
	requireDecimal(t, "10", got.Amount)
}

func TestWalletDebitNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("100"))

	// 100 covers exactly three debits of 30
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Debit(db, wallet.ID, dec("30")))
	}
	require.ErrorIs(t, svc.Debit(db, wallet.ID, dec("30")), ErrInsufficientFunds)

	var got models.UserWallet
	require.NoError(t, db.First(&got, "id = ?", wallet.ID).Error)
	requireDecimal(t, "10", got.Amount)
	assert.False(t, got.Amount.IsNegative())
}

func TestWalletRandomSequenceStaysNonNegative(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("50"))

	r := NewRandomSource(7)
	expected := dec("50")
	for i := 0; i < 200; i++ {
		amount := decimal.NewFromInt(int64(r.Intn(40)))
		if r.Float64() < 0.5 {
			require.NoError(t, svc.Credit(db, wallet.ID, amount))
			expected = expected.Add(amount)
			continue
		}
		err := svc.Debit(db, wallet.ID, amount)
		if expected.GreaterThanOrEqual(amount) {
			require.NoError(t, err)
			expected = expected.Sub(amount)
		} else {
			require.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}

	var got models.UserWallet
	require.NoError(t, db.First(&got, "id = ?", wallet.ID).Error)
	require.True(t, got.Amount.Equal(expected), "want %s, got %s", expected, got.Amount)
	assert.False(t, got.Amount.IsNegative())
}

func TestWalletDebitLockedWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("100"))
	require.NoError(t, db.Model(wallet).Update("is_locked", true).Error)

	err := svc.Debit(db, wallet.ID, dec("1"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var got models.UserWallet
	require.NoError(t, db.First(&got, "id = ?", wallet.ID).Error)
	requireDecimal(t, "100", got.Amount)
}

func TestWalletCreditUnknownWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)

	err := svc.Credit(db, uuid.NewString(), dec("5"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWalletRejectsNegativeAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := seedUser(t, db)
	asset := seedAsset(t, db, "BNB")
	wallet := seedWallet(t, db, user.ID, asset.ID, dec("100"))

	require.ErrorIs(t, svc.Debit(db, wallet.ID, dec("-1")), ErrInternal)
	require.ErrorIs(t, svc.Credit(db, wallet.ID, dec("-1")), ErrInternal)
}
