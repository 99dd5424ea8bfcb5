// Package imdbweb talks to IMDb's public suggestion endpoint over plain
// HTTP. It is too thin to replace either real source, it only backfills
// headshot and known-for data that the structured source never returns.
package imdbweb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"actorratings-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/imdbweb")

const defaultBaseUrl = "https://v3.sg.media-imdb.com"

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

type ClientOptions struct {
	// overridable for tests, defaults to the live endpoint
	BaseUrl string
}

type Client struct {
	http    *resty.Client
	baseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 10)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return Client{
		http:    client,
		baseUrl: baseUrl,
	}
}

type Suggestion struct {
	ID       string
	Name     string
	KnownFor string
	ImageURL string
}

type suggestionPayload struct {
	D []struct {
		ID string `json:"id"`
		L  string `json:"l"`
		S  string `json:"s"`
		I  struct {
			ImageUrl string `json:"imageUrl"`
		} `json:"i"`
	} `json:"d"`
}

// Suggest queries the suggestion endpoint and keeps only person entries.
func (c Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	link := fmt.Sprintf(
		"%s/suggestion/x/%s.json",
		c.baseUrl,
		url.PathEscape(strings.ToLower(strings.TrimSpace(query))),
	)

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("suggestion endpoint returned status %d", res.StatusCode())
	}

	var payload suggestionPayload
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, entry := range payload.D {
		if !strings.HasPrefix(entry.ID, "nm") || entry.L == "" {
			continue
		}
		out = append(out, Suggestion{
			ID:       entry.ID,
			Name:     entry.L,
			KnownFor: entry.S,
			ImageURL: entry.I.ImageUrl,
		})
	}
	return out, nil
}
