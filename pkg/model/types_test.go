package model_test

import (
	"testing"

	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestAccountSet_All(t *testing.T) {
	set := model.AccountSet{
		Core: []model.Account{
			{ID: "a1", Name: "Operating", Kind: model.AccountCore},
		},
		Credit: []model.Account{
			{ID: "c1", Name: "IO Card", Kind: model.AccountCredit},
		},
	}

	all := set.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].ID)
	assert.Equal(t, "c1", all[1].ID)
}

func TestTransaction_AbsAmountMinor(t *testing.T) {
	debit := model.Transaction{AmountMinor: -1250}
	credit := model.Transaction{AmountMinor: 900}

	assert.Equal(t, int64(1250), debit.AbsAmountMinor())
	assert.Equal(t, int64(900), credit.AbsAmountMinor())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		want  string
	}{
		{"whole dollars", 500000, "$5000.00"},
		{"cents", 1234, "$12.34"},
		{"negative uses magnitude", -50, "$0.50"},
		{"zero", 0, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.FormatAmount(tt.minor))
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := model.DefaultSettings()
	assert.True(t, s.Enabled)
	assert.True(t, s.IncludeCredits)
	assert.True(t, s.IncludeDebits)
	assert.Equal(t, int64(0), s.MinAmountMinor)
	assert.Equal(t, int64(300), s.CooldownSeconds)
	assert.Equal(t, "5m0s", s.Cooldown().String())
}
