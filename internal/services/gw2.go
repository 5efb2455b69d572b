package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/yorudev/gw2-loot-tracker/internal/metrics"
	"github.com/yorudev/gw2-loot-tracker/internal/models"
)

const (
	gw2BaseURL        = "https://api.guildwars2.com"
	gw2DefaultTimeout = 10 * time.Second

	// The GW2 API accepts at most 200 ids per request
	gw2MaxIDsPerRequest = 200
)

// GW2Client handles read calls against the Guild Wars 2 account API.
//
// Failure policy: transport errors, non-200 statuses and malformed bodies
// are all treated as "no data for this call". Callers decide whether a
// missing piece is fatal (wallet) or optional (everything else).
type GW2Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter

	// Successful key validations are memoized so repeated validation of the
	// same key doesn't burn API quota. Failed validations are not cached: a
	// key that was invalid a minute ago may have been fixed server-side.
	validKeys *lru.Cache[string, models.KeyStatus]
}

// NewGW2Client creates a client for the public GW2 API. The API throttles
// at roughly 600 requests a minute; the limiter stays well under that.
func NewGW2Client() *GW2Client {
	validKeys, _ := lru.New[string, models.KeyStatus](16)
	return &GW2Client{
		client: &http.Client{
			Timeout: gw2DefaultTimeout,
		},
		baseURL:   gw2BaseURL,
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 10),
		validKeys: validKeys,
	}
}

// get performs a GET against the given path (query string included),
// optionally with a bearer key. Returns nil on any failure.
func (c *GW2Client) get(path, apiKey string) []byte {
	_ = c.limiter.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), gw2DefaultTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GW2RequestsTotal.WithLabelValues("error").Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GW2RequestsTotal.WithLabelValues("error").Inc()
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GW2RequestsTotal.WithLabelValues("error").Inc()
		return nil
	}
	metrics.GW2RequestsTotal.WithLabelValues("ok").Inc()
	return body
}

type tokenInfoResponse struct {
	// The API reports errors as {"text": "Invalid access token"}
	Text        string   `json:"text"`
	Permissions []string `json:"permissions"`
}

// ValidateKey checks an API key against the token-introspection endpoint.
// The key needs both the "inventories" and "wallet" permissions.
func (c *GW2Client) ValidateKey(apiKey string) models.KeyStatus {
	if apiKey == "" {
		return models.KeyStatusInvalid
	}
	if status, ok := c.validKeys.Get(apiKey); ok {
		return status
	}

	body := c.get("/v2/tokeninfo", apiKey)
	if len(body) == 0 {
		return models.KeyStatusInvalid
	}

	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return models.KeyStatusInvalid
	}
	if info.Text != "" {
		return models.KeyStatusInvalid
	}

	hasInventory, hasWallet := false, false
	for _, p := range info.Permissions {
		switch p {
		case "inventories":
			hasInventory = true
		case "wallet":
			hasWallet = true
		}
	}
	if !hasInventory || !hasWallet {
		return models.KeyStatusNoPermissions
	}

	c.validKeys.Add(apiKey, models.KeyStatusValid)
	return models.KeyStatusValid
}

type characterInventoryResponse struct {
	Bags []*struct {
		Inventory []*struct {
			ID    int `json:"id"`
			Count int `json:"count"`
		} `json:"inventory"`
	} `json:"bags"`
}

type storageSlot struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// FetchSnapshot produces a best-effort merged snapshot of one account.
//
// The wallet is mandatory: it anchors currency tracking, so a failed wallet
// fetch fails the whole operation. Character inventory, material storage,
// bank and shared slots degrade gracefully and are merged into a single
// count per item id. Merging is deliberate: an item moved from a bag into
// the bank must never show up as a loss in one place and a gain in another.
func (c *GW2Client) FetchSnapshot(apiKey, characterName string) (models.Snapshot, bool) {
	var snap models.Snapshot

	// Wallet
	body := c.get("/v2/account/wallet", apiKey)
	if len(body) == 0 {
		return snap, false
	}
	var wallet []models.WalletEntry
	if err := json.Unmarshal(body, &wallet); err != nil {
		return snap, false
	}
	snap.Wallet = wallet

	// index of item id -> position in snap.Inventory
	idx := make(map[int]int)
	addStack := func(id, count int, loc models.StackLocation, bagSlot int) {
		if count <= 0 {
			return
		}
		if pos, ok := idx[id]; ok {
			snap.Inventory[pos].Count += count
			return
		}
		idx[id] = len(snap.Inventory)
		snap.Inventory = append(snap.Inventory, models.ItemStack{
			ItemID:   id,
			Count:    count,
			Location: loc,
			BagSlot:  bagSlot,
		})
	}

	// Character bag inventory (optional: the character may not be known yet)
	if characterName != "" {
		path := "/v2/characters/" + url.PathEscape(characterName) + "/inventory"
		if body := c.get(path, apiKey); len(body) != 0 {
			var inv characterInventoryResponse
			if err := json.Unmarshal(body, &inv); err == nil {
				slot := 0
				for _, bag := range inv.Bags {
					if bag == nil {
						slot++
						continue
					}
					for _, item := range bag.Inventory {
						if item != nil {
							addStack(item.ID, item.Count, models.LocationCharacterBag, slot)
						}
						slot++
					}
				}
			}
		}
	}

	// Material storage, bank and shared inventory slots share the same
	// flat slot shape and the same non-fatal failure policy.
	c.mergeStorage(addStack, apiKey, "/v2/account/materials", models.LocationMaterialStorage)
	c.mergeStorage(addStack, apiKey, "/v2/account/bank", models.LocationBank)
	c.mergeStorage(addStack, apiKey, "/v2/account/inventory", models.LocationSharedSlots)

	return snap, true
}

func (c *GW2Client) mergeStorage(addStack func(int, int, models.StackLocation, int), apiKey, path string, loc models.StackLocation) {
	body := c.get(path, apiKey)
	if len(body) == 0 {
		return
	}
	var slots []*storageSlot
	if err := json.Unmarshal(body, &slots); err != nil {
		return
	}
	for _, s := range slots {
		if s == nil {
			continue
		}
		addStack(s.ID, s.Count, loc, 0)
	}
}

// FetchItemDetails looks up display metadata for a batch of item ids,
// transparently splitting requests larger than the API's 200-id limit.
// A failed chunk is skipped; the result is the union of whatever each
// chunk yielded.
func (c *GW2Client) FetchItemDetails(ids []int) []models.ItemInfo {
	var result []models.ItemInfo
	for _, chunk := range chunkIDs(ids, gw2MaxIDsPerRequest) {
		body := c.get("/v2/items?ids="+joinIDs(chunk)+"&lang=en", "")
		if len(body) == 0 {
			continue
		}
		var infos []models.ItemInfo
		if err := json.Unmarshal(body, &infos); err != nil {
			continue
		}
		result = append(result, infos...)
	}
	return result
}

// FetchCurrencyDetails looks up display metadata for a batch of currency
// ids, with the same chunking and failure policy as FetchItemDetails.
func (c *GW2Client) FetchCurrencyDetails(ids []int) []models.CurrencyInfo {
	var result []models.CurrencyInfo
	for _, chunk := range chunkIDs(ids, gw2MaxIDsPerRequest) {
		body := c.get("/v2/currencies?ids="+joinIDs(chunk)+"&lang=en", "")
		if len(body) == 0 {
			continue
		}
		var infos []models.CurrencyInfo
		if err := json.Unmarshal(body, &infos); err != nil {
			continue
		}
		result = append(result, infos...)
	}
	return result
}

// FetchAllCurrencies resolves the full currency catalog by listing all
// currency ids and delegating to the batch lookup.
func (c *GW2Client) FetchAllCurrencies() []models.CurrencyInfo {
	body := c.get("/v2/currencies", "")
	if len(body) == 0 {
		return nil
	}
	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil
	}
	return c.FetchCurrencyDetails(ids)
}

func chunkIDs(ids []int, size int) [][]int {
	var chunks [][]int
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
