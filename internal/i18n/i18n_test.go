package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateBag(t *testing.T) {
	require.NoError(t, ValidateBag(Localized{"en": "Bottle", "ru": "Бутылка"}))
	require.NoError(t, ValidateBag(nil))
	require.Error(t, ValidateBag(Localized{"de": "Flasche"}))
}

func TestMatch(t *testing.T) {
	require.Equal(t, "ru", Match("ru-RU"))
	require.Equal(t, "en", Match("en-US"))
	require.Equal(t, "uz", Match("uz"))
	require.Equal(t, DefaultLanguage, Match(""))
	require.Equal(t, DefaultLanguage, Match("!!"))
}

func TestPickFallback(t *testing.T) {
	bag := Localized{"en": "Bottle", "ru": "Бутылка"}
	require.Equal(t, "Бутылка", Pick(bag, "ru"))
	require.Equal(t, "Bottle", Pick(bag, "uz"))

	onlyUz := Localized{"uz": "Shisha"}
	require.Equal(t, "Shisha", Pick(onlyUz, "en"))
	require.Equal(t, "", Pick(nil, "en"))
}
