package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/formschema"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/internal/order/dto"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/validate"
)

const (
	maxCodeAttempts = 5
	lockTTL         = 5 * time.Second
	lockAttempts    = 3
	lockBackoff     = 100 * time.Millisecond
)

type orderUseCase struct {
	repo      order.Repository
	catalog   order.CatalogSource
	settings  order.ConfigSource
	clients   order.ClientDirectory
	schemas   *formschema.Registry
	publisher order.EventPublisher
	locker    cache.Locker
	es        order.SearchIndex
	logger    logger.ZapLogger
	rng       io.Reader
}

// NewOrderUseCase wires the order flows. locker and es may be nil: without a locker admin
// updates are last-write-wins, without es searches go to the database.
func NewOrderUseCase(
	repo order.Repository,
	catalog order.CatalogSource,
	settings order.ConfigSource,
	clients order.ClientDirectory,
	schemas *formschema.Registry,
	publisher order.EventPublisher,
	locker cache.Locker,
	es order.SearchIndex,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		catalog:   catalog,
		settings:  settings,
		clients:   clients,
		schemas:   schemas,
		publisher: publisher,
		locker:    locker,
		es:        es,
		logger:    log,
	}
}

func (uc *orderUseCase) Quote(ctx context.Context, sel pricing.Selection, choice model.PaymentChoice) (*pricing.Quote, error) {
	snapshot, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	q := pricing.NewQuote(snapshot, sel, cfg, choice)
	return &q, nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.CreateOrderResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	description, err := uc.describe(input)
	if err != nil {
		return nil, err
	}

	quote, err := uc.Quote(ctx, input.Selection, input.PaymentChoice)
	if err != nil {
		return nil, err
	}

	draft := order.Draft{
		ClientEmail:       input.ClientEmail,
		ProductName:       input.ProductName,
		Description:       description,
		ReferenceImageURL: input.ReferenceImageURL,
		PaymentChoice:     quote.Plan.Choice,
		RequestDate:       time.Now(),
	}

	var o *model.Order
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		o, err = order.BuildOrder(draft, quote.Breakdown.PriceBreakdown(), uc.rng)
		if err != nil {
			return nil, err
		}
		err = uc.repo.Create(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, order.ErrTrackingCodeTaken) {
			return nil, err
		}
		uc.logger.Warn("tracking code collision, drawing a new one",
			zap.String("tracking_code", o.TrackingCode),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, order.ErrTrackingCodeSpace
	}

	uc.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("tracking_code", o.TrackingCode),
		zap.Int64("total_amount", o.TotalAmount),
		zap.String("payment_choice", string(o.PaymentChoice)),
	)
	uc.publish(ctx, order.NewEvent(order.EventOrderCreated, o))

	return &dto.CreateOrderResult{Order: o, Plan: quote.Plan}, nil
}

// describe turns the custom form answers into the stored description, followed by any free
// notes. Orders without answers keep just the notes.
func (uc *orderUseCase) describe(input *dto.CreateOrderInput) (string, error) {
	notes := strings.TrimSpace(input.Notes)
	if len(input.Answers) == 0 && input.ProductType == "" {
		return notes, nil
	}

	productType := input.ProductType
	if productType == "" {
		productType = formschema.DefaultProductType
	}
	schema, err := uc.schemas.Get(productType)
	if err != nil {
		return "", err
	}
	if err := formschema.Validate(schema, input.Answers); err != nil {
		return "", err
	}

	description := formschema.Describe(schema, input.Answers)
	if notes != "" {
		if description != "" {
			description += "\n\n"
		}
		description += notes
	}
	return description, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return uc.repo.FindByID(ctx, id)
}

func (uc *orderUseCase) FindByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	code = strings.TrimSpace(code)
	if !order.IsTrackingCode(code) {
		return nil, nil
	}
	return uc.repo.FindByTrackingCode(ctx, code)
}

func (uc *orderUseCase) FindByClientEmail(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return []model.Order{}, nil
	}
	return uc.repo.FindByClientEmail(ctx, email)
}

func (uc *orderUseCase) ResolveRequesterContext(ctx context.Context, o *model.Order) (*dto.RequesterContext, error) {
	if o == nil {
		return nil, order.ErrOrderNotFound
	}

	guest := &dto.RequesterContext{
		AllOrders: []model.Order{*o},
		Referrals: []model.Referral{},
	}

	client, err := uc.clients.FindByEmail(ctx, o.ClientEmail)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return guest, nil
	}

	orders, err := uc.FindByClientEmail(ctx, o.ClientEmail)
	if err != nil {
		return nil, err
	}
	referrals, err := uc.clients.ListReferrals(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if referrals == nil {
		referrals = []model.Referral{}
	}

	return &dto.RequesterContext{
		IsRegisteredClient: true,
		Client:             client,
		AllOrders:          orders,
		Referrals:          referrals,
	}, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	f := *filters
	f.Normalize()
	f.ClientEmail = strings.ToLower(strings.TrimSpace(f.ClientEmail))
	return uc.repo.FindAll(ctx, &f)
}

func (uc *orderUseCase) SearchOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	f := *filters
	f.Normalize()

	if f.SearchQuery != "" && uc.es != nil {
		orders, total, err := uc.searchIndex(ctx, &f)
		if err == nil {
			return orders, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}
	return uc.ListOrders(ctx, &f)
}

func (uc *orderUseCase) searchIndex(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  f.SearchQuery,
				"fields": []string{"product_name^3", "description", "client_email", "tracking_code"},
			},
		},
	}
	if f.Status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"status": f.Status},
		})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"request_date": map[string]interface{}{"order": "desc"}},
		},
		"from": (f.Page - 1) * f.PageSize,
		"size": f.PageSize,
	}

	res, err := uc.es.Search(ctx, order.SearchIndexName, q)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]model.Order, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var o model.Order
		if err := json.Unmarshal(hit.Source, &o); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders, res.Hits.Total.Value, nil
}

func (uc *orderUseCase) RecordPayment(ctx context.Context, id string, amount int64) (*model.Order, error) {
	if amount <= 0 {
		return nil, order.ErrInvalidPayment
	}

	o, err := uc.mutate(ctx, id, func(o *model.Order) error {
		if amount > o.BalanceDue {
			return order.ErrInvalidPayment
		}
		o.ApplyPayment(amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("payment recorded",
		zap.String("order_id", o.ID),
		zap.Int64("amount", amount),
		zap.Int64("balance_due", o.BalanceDue),
	)
	ev := order.NewEvent(order.EventOrderPaymentRecorded, o)
	ev.Amount = amount
	uc.publish(ctx, ev)
	return o, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, next model.OrderStatus) (*model.Order, error) {
	var from model.OrderStatus
	o, err := uc.mutate(ctx, id, func(o *model.Order) error {
		if !next.Valid() || !o.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, o.Status, next)
		}
		from = o.Status
		o.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	uc.publish(ctx, order.NewEvent(order.EventOrderStatusChanged, o))
	return o, nil
}

func (uc *orderUseCase) SetFulfillment(ctx context.Context, input *dto.FulfillmentInput) (*model.Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	o, err := uc.mutate(ctx, input.ID, func(o *model.Order) error {
		if input.FinalImageURL != nil {
			o.FinalImageURL = input.FinalImageURL
		}
		if input.ShippingTrackingCode != nil {
			o.ShippingTrackingCode = input.ShippingTrackingCode
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order fulfillment updated", zap.String("order_id", o.ID))
	uc.publish(ctx, order.NewEvent(order.EventOrderFulfillmentUpdated, o))
	return o, nil
}

// mutate loads the order under its lock, applies fn and stores the result.
func (uc *orderUseCase) mutate(ctx context.Context, id string, fn func(o *model.Order) error) (*model.Order, error) {
	unlock, err := uc.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}

	if err := fn(o); err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) lock(ctx context.Context, id string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	lockKey := "lock:order:" + id
	lockValue := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
					uc.logger.Warn("failed to release order lock", zap.String("key", lockKey), zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockBackoff)
	}
	return nil, order.ErrOrderBusy
}

// publish is best-effort: the order is already stored, so a broker failure is only logged.
func (uc *orderUseCase) publish(ctx context.Context, ev order.Event) {
	if uc.publisher == nil {
		return
	}
	data, err := ev.Marshal()
	if err != nil {
		uc.logger.Error("failed to encode order event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, ev.Payload.ID, data); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("event_type", string(ev.EventType)),
			zap.String("order_id", ev.Payload.ID),
			zap.Error(err),
		)
	}
}
