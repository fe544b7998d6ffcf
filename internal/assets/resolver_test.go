package assets

import (
	"context"
	"testing"

	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web/webtest"

	"github.com/stretchr/testify/require"
)

const (
	testSmite2 = "https://smite2.test"
	testCDN    = "https://cdn.test/smite_gamepedia/images"
	testIndex  = "https://smite.test/wiki/Smite_Wiki"
)

func newTestResolver(site *webtest.Site) *Resolver {
	return NewResolver(ResolverOptions{
		Smite2Base:     testSmite2,
		Smite1CDN:      testCDN,
		Smite1IndexURL: testIndex,
	}, site, site, telemetry.NewRecorder())
}

func TestResolveTemplates(t *testing.T) {
	site := webtest.NewSite().
		Serve(testSmite2+"/images/T_Hun_Batz_Default_Icon.png", "png").
		Serve(testSmite2+"/images/T_ZeusS2_Default.png", "png").
		Serve(testCDN+"/T_AMC_Default_Icon.png", "png").
		Serve(testCDN+"/T_Zeus_Default_Card.png", "png")
	resolver := newTestResolver(site)

	testCases := []struct {
		req      Request
		expected string
	}{
		{
			req:      Request{Name: "Hun Batz", Site: SiteSmite2, Kind: KindThumbnail},
			expected: testSmite2 + "/images/T_Hun_Batz_Default_Icon.png",
		},
		{
			req:      Request{Name: "Zeus", Site: SiteSmite2, Kind: KindFullImage},
			expected: testSmite2 + "/images/T_ZeusS2_Default.png",
		},
		{
			req:      Request{Name: "Ah Muzen Cab", Site: SiteSmite1, Kind: KindThumbnail},
			expected: testCDN + "/T_AMC_Default_Icon.png",
		},
		{
			req:      Request{Name: "Zeus", Site: SiteSmite1, Kind: KindFullImage},
			expected: testCDN + "/T_Zeus_Default_Card.png",
		},
	}

	for _, test := range testCases {
		t.Run(test.req.Name+" "+string(test.req.Site)+" "+string(test.req.Kind), func(t *testing.T) {
			url, ok := resolver.Resolve(context.Background(), test.req)
			require.True(t, ok)
			require.Equal(t, test.expected, url)
		})
	}
}

func TestResolveCheckOrder(t *testing.T) {
	first := testSmite2 + "/images/thumb/T_Zeus%28S2%29_Default_Icon.png/35px-T_Zeus%28S2%29_Default_Icon.png"
	second := testSmite2 + "/images/T_Zeus%28S2%29_Default_Icon.png"
	site := webtest.NewSite().Serve(first, "png").Serve(second, "png")
	resolver := newTestResolver(site)

	url, ok := resolver.Resolve(context.Background(), Request{Name: "Zeus", Site: SiteSmite2, Kind: KindThumbnail})
	require.True(t, ok)
	require.Equal(t, first, url)
	require.Zero(t, site.Probes(second))

	// answers are remembered
	_, ok = resolver.Resolve(context.Background(), Request{Name: "Zeus", Site: SiteSmite2, Kind: KindThumbnail})
	require.True(t, ok)
	require.Equal(t, 1, site.Probes(first))
}

func TestResolveRetriesFailedChecks(t *testing.T) {
	first := testSmite2 + "/images/thumb/T_Zeus%28S2%29_Default_Icon.png/35px-T_Zeus%28S2%29_Default_Icon.png"
	second := testSmite2 + "/images/T_Zeus%28S2%29_Default_Icon.png"
	site := webtest.NewSite().Fail(first).Serve(second, "png")
	resolver := newTestResolver(site)

	for range 2 {
		url, ok := resolver.Resolve(context.Background(), Request{Name: "Zeus", Site: SiteSmite2, Kind: KindThumbnail})
		require.True(t, ok)
		require.Equal(t, second, url)
	}

	// the unreachable url is asked again, the served one is remembered
	require.Equal(t, 2, site.Probes(first))
	require.Equal(t, 1, site.Probes(second))
}

func TestResolveSmite2Page(t *testing.T) {
	page := testSmite2 + "/w/Scylla"
	site := webtest.NewSite().Serve(page, `<html><body>
		<img src="/images/thumb/T_ScyllaS2_Default.png/250px-T_ScyllaS2_Default.png">
		<table class="infobox"><tr><td><img src="/images/c/c1/Scylla_Portrait.png"></td></tr></table>
	</body></html>`)
	resolver := newTestResolver(site)

	url, ok := resolver.Resolve(context.Background(), Request{Name: "Scylla", Site: SiteSmite2, Kind: KindThumbnail, PageURL: page})
	require.True(t, ok)
	require.Equal(t, testSmite2+"/images/thumb/T_ScyllaS2_Default.png/35px-T_ScyllaS2_Default.png", url)

	url, ok = resolver.Resolve(context.Background(), Request{Name: "Scylla", Site: SiteSmite2, Kind: KindFullImage, PageURL: page})
	require.True(t, ok)
	require.Equal(t, testSmite2+"/images/c/c1/Scylla_Portrait.png", url)

	// the page is fetched once per request
	require.Equal(t, 2, site.Fetches(page))
}

func TestResolveSmite1Page(t *testing.T) {
	page := "https://smite.test/wiki/Thor"
	icon := testCDN + "/a/ab/T_Thor_Default_Icon.png/revision/latest?cb=2020"
	scaled := testCDN + "/a/ab/T_Thor_Default_Icon.png/revision/latest/scale-to-width-down/36"
	card := testCDN + "/c/cd/T_Thor_Default_Card.png/revision/latest?cb=1"
	site := webtest.NewSite().
		Serve(page, `<html><body>
			<img src="`+testCDN+`/9/99/Icons_Thor_A01.png/revision/latest">
			<img src="`+icon+`">
			<img src="`+card+`">
		</body></html>`).
		Serve(scaled, "png")
	resolver := newTestResolver(site)

	url, ok := resolver.Resolve(context.Background(), Request{Name: "Thor", Site: SiteSmite1, Kind: KindThumbnail, PageURL: page})
	require.True(t, ok)
	require.Equal(t, scaled, url)

	url, ok = resolver.Resolve(context.Background(), Request{Name: "Thor", Site: SiteSmite1, Kind: KindFullImage, PageURL: page})
	require.True(t, ok)
	require.Equal(t, card, url)
}

func TestResolveSmite1PageUnscaled(t *testing.T) {
	page := "https://smite.test/wiki/Thor"
	icon := testCDN + "/a/ab/T_Thor_Default_Icon.png/revision/latest?cb=2020"
	site := webtest.NewSite().Serve(page, `<img src="`+icon+`">`)
	resolver := newTestResolver(site)

	url, ok := resolver.Resolve(context.Background(), Request{Name: "Thor", Site: SiteSmite1, Kind: KindThumbnail, PageURL: page})
	require.True(t, ok)
	require.Equal(t, icon, url)
	require.Equal(t, 1, site.Probes(testCDN+"/a/ab/T_Thor_Default_Icon.png/revision/latest/smart/width/36/height/36"))
}

func TestResolveSmite1Index(t *testing.T) {
	site := webtest.NewSite().Serve(testIndex, `<html><body>
		<img data-image-key="T_Zeus_Default_Icon.png" data-src="`+testCDN+`/1/1a/T_Zeus_Default_Icon.png/revision/latest/scale-to-width-down/40">
		<img data-image-key="T_Baba_Yaga_Default_Icon.png" data-src="`+testCDN+`/2/2b/T_BabaYaga_Default_Icon.png/revision/latest/scale-to-width-down/40">
		<img data-image-key="T_BabaYaga_Default_Card.png" data-src="`+testCDN+`/3/3c/T_BabaYaga_Default_Card.png/revision/latest/scale-to-width-down/40">
	</body></html>`)
	resolver := newTestResolver(site)

	url, ok := resolver.Resolve(context.Background(), Request{Name: "Baba Yaga", Site: SiteSmite1, Kind: KindThumbnail})
	require.True(t, ok)
	require.Equal(t, testCDN+"/2/2b/T_BabaYaga_Default_Icon.png/revision/latest", url)

	url, ok = resolver.Resolve(context.Background(), Request{Name: "Baba Yaga", Site: SiteSmite1, Kind: KindFullImage})
	require.True(t, ok)
	require.Equal(t, testCDN+"/3/3c/T_BabaYaga_Default_Card.png/revision/latest", url)

	require.Equal(t, 1, site.Fetches(testIndex))
}

func TestResolveUnresolved(t *testing.T) {
	site := webtest.NewSite().Fail("https://smite2.test/w/Nobody")
	resolver := newTestResolver(site)

	for _, req := range []Request{
		{Name: "Nobody", Site: SiteSmite2, Kind: KindThumbnail, PageURL: "https://smite2.test/w/Nobody"},
		{Name: "Nobody", Site: SiteSmite2, Kind: KindFullImage},
		{Name: "Nobody", Site: SiteSmite1, Kind: KindThumbnail},
		{Name: "Nobody", Site: SiteSmite1, Kind: KindFullImage},
	} {
		url, ok := resolver.Resolve(context.Background(), req)
		require.False(t, ok)
		require.Empty(t, url)
	}
}
