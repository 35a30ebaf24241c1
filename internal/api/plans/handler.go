package plans

import (
	"net/http"
	"sync"
	"time"

	"saas-api/internal/app/deps"
	"saas-api/internal/domain/plans"
	"saas-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"go.uber.org/zap"
)

const priceCacheTTL = 10 * time.Minute

// getPrice is replaced in tests.
var getPrice = price.Get

type PlanDTO struct {
	ID       plans.PaymentPlanID `json:"id"`
	Name     string              `json:"name"`
	Kind     string              `json:"kind"`
	Credits  int64               `json:"credits,omitempty"`
	PriceEUR *float64            `json:"price_eur"`
	Currency string              `json:"currency,omitempty"`
	Interval string              `json:"interval,omitempty"`
}

type cachedPrice struct {
	price   *stripe.Price
	fetched time.Time
}

var (
	priceCacheMu sync.Mutex
	priceCache   = map[string]cachedPrice{}
)

// ListPlans serves the pricing page. Stripe prices are cached for a few
// minutes; a plan whose price cannot be fetched is still listed, without amount.
func ListPlans(c *gin.Context) {
	all := deps.Plans.All()
	out := make([]PlanDTO, 0, len(all))

	for _, p := range all {
		dto := PlanDTO{
			ID:      p.ID,
			Name:    plans.PrettyName(p.ID),
			Kind:    p.Effect.Kind,
			Credits: p.Effect.Credits,
		}

		sp, err := lookupPrice(p.StripePriceID)
		if err != nil {
			logger.Get().Warn("stripe price lookup failed", zap.String("price_id", p.StripePriceID), zap.Error(err))
		} else {
			amount := float64(sp.UnitAmount) / 100.0
			dto.PriceEUR = &amount
			dto.Currency = string(sp.Currency)
			if sp.Recurring != nil {
				dto.Interval = string(sp.Recurring.Interval)
			}
		}
		out = append(out, dto)
	}

	c.JSON(http.StatusOK, out)
}

func lookupPrice(id string) (*stripe.Price, error) {
	priceCacheMu.Lock()
	if cp, ok := priceCache[id]; ok && time.Since(cp.fetched) < priceCacheTTL {
		priceCacheMu.Unlock()
		return cp.price, nil
	}
	priceCacheMu.Unlock()

	p, err := getPrice(id, nil)
	if err != nil {
		return nil, err
	}

	priceCacheMu.Lock()
	priceCache[id] = cachedPrice{price: p, fetched: time.Now()}
	priceCacheMu.Unlock()
	return p, nil
}
