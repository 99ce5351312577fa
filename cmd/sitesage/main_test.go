package main

import (
	"testing"

	"github.com/quietriver/sitesage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSites(t *testing.T) {
	t.Parallel()

	t.Run("parses tag=url pairs", func(t *testing.T) {
		t.Parallel()

		sites, err := parseSites([]string{
			"changi_airport=https://www.changiairport.com",
			"jewel_changi=https://www.jewelchangiairport.com",
		}, 50)
		require.NoError(t, err)
		require.Len(t, sites, 2)
		assert.Equal(t, "changi_airport", sites[0].Tag)
		assert.Equal(t, "https://www.changiairport.com", sites[0].RootURL)
		assert.Equal(t, 50, sites[0].MaxPages)
		assert.Equal(t, "jewel_changi", sites[1].Tag)
	})

	t.Run("keeps equals signs inside the URL", func(t *testing.T) {
		t.Parallel()

		sites, err := parseSites([]string{"tag=https://example.com/page?x=1"}, 10)
		require.NoError(t, err)
		require.Len(t, sites, 1)
		assert.Equal(t, "https://example.com/page?x=1", sites[0].RootURL)
	})

	t.Run("applies the default page budget", func(t *testing.T) {
		t.Parallel()

		sites, err := parseSites([]string{"tag=https://example.com"}, 0)
		require.NoError(t, err)
		require.Len(t, sites, 1)
		assert.Equal(t, 50, sites[0].MaxPages)
	})

	t.Run("derives the assistant domain from site tags", func(t *testing.T) {
		t.Parallel()

		sites, err := parseSites([]string{
			"changi_airport=https://www.changiairport.com",
			"jewel_changi=https://www.jewelchangiairport.com",
		}, 50)
		require.NoError(t, err)
		assert.Equal(t, "changi airport and jewel changi", siteDomain(sites))
	})

	t.Run("rejects malformed pairs", func(t *testing.T) {
		t.Parallel()

		_, err := parseSites([]string{"no-equals-sign"}, 10)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))

		_, err = parseSites([]string{"=https://example.com"}, 10)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))

		_, err = parseSites([]string{"tag="}, 10)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))
	})
}
