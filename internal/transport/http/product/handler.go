package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/get_product"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/list_products"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/create_product"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/delete_product"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/update_product"
	"github.com/light-bringer/procat-rest/internal/transport/http/httperrors"
)

// HeaderTotalCount carries the number of products matching a list request.
const HeaderTotalCount = "X-Total-Count"

// Handler serves the products REST API.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	createProduct *create_product.Interactor
	updateProduct *update_product.Interactor
	deleteProduct *delete_product.Interactor

	// Queries
	getProduct   *get_product.Query
	listProducts *list_products.Query

	logger *zap.Logger
}

// NewHandler creates a new product HTTP handler.
func NewHandler(
	createProduct *create_product.Interactor,
	updateProduct *update_product.Interactor,
	deleteProduct *delete_product.Interactor,
	getProduct *get_product.Query,
	listProducts *list_products.Query,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		createProduct: createProduct,
		updateProduct: updateProduct,
		deleteProduct: deleteProduct,
		getProduct:    getProduct,
		listProducts:  listProducts,
		logger:        logger,
	}
}

// Register mounts the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/health", h.Health)

	g := e.Group("/products")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Index describes the service.
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":    "Product Catalog REST API Service",
		"version": "1.0",
		"paths":   "/products",
	})
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

// Create handles POST /products.
func (h *Handler) Create(c echo.Context) error {
	if err := checkContentType(c); err != nil {
		return err
	}

	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	product, err := h.createProduct.Execute(c.Request().Context(), &create_product.Request{Data: data})
	if err != nil {
		return err
	}

	h.logger.Info("product created", zap.Int64("product_id", product.ID()))

	c.Response().Header().Set(echo.HeaderLocation, productLocation(c, product.ID()))
	return c.JSON(http.StatusCreated, product.Serialize())
}

// Get handles GET /products/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.getProduct.Find(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return notFound(c.Param("id"))
	}

	return c.JSON(http.StatusOK, product.Serialize())
}

// Update handles PUT /products/:id.
func (h *Handler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := checkContentType(c); err != nil {
		return err
	}

	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	product, err := h.updateProduct.Execute(c.Request().Context(), &update_product.Request{
		ProductID: id,
		Data:      data,
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		return notFound(c.Param("id"))
	}
	if err != nil {
		return err
	}

	h.logger.Info("product updated", zap.Int64("product_id", id))
	return c.JSON(http.StatusOK, product.Serialize())
}

// Delete handles DELETE /products/:id. Unknown ids still answer 204.
func (h *Handler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.deleteProduct.Execute(c.Request().Context(), &delete_product.Request{ProductID: id}); err != nil {
		return err
	}

	h.logger.Info("product deleted", zap.Int64("product_id", id))
	return c.NoContent(http.StatusNoContent)
}

// listQuery holds the supported filters and paging; other parameters are
// ignored. Filter values are parsed by list_products.ParseFilter.
type listQuery struct {
	Name      string `query:"name"`
	Category  string `query:"category"`
	Available string `query:"available"`
	Price     string `query:"price"`
	Limit     int64  `query:"limit" validate:"min=0"`
	Offset    int64  `query:"offset" validate:"min=0"`
}

// List handles GET /products. Filters are combined with AND; an empty
// value leaves its filter off. limit and offset page the result while
// X-Total-Count reports every match.
func (h *Handler) List(c echo.Context) error {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	result, err := h.listProducts.Execute(c.Request().Context(), &list_products.Request{
		Name:      optional(q.Name),
		Category:  optional(q.Category),
		Available: optional(q.Available),
		Price:     optional(q.Price),
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return err
	}

	body := make([]map[string]interface{}, 0, len(result.Products))
	for _, p := range result.Products {
		body = append(body, p.Serialize())
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(result.Total, 10))
	return c.JSON(http.StatusOK, body)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// productID parses the path id. Anything that is not a positive integer
// cannot name a product, so it is reported as not found.
func productID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound(raw)
	}
	return id, nil
}

func notFound(id string) error {
	_, message := httperrors.NotFound(fmt.Sprintf("Product with id '%s' was not found.", id))
	return echo.NewHTTPError(http.StatusNotFound, message)
}

func checkContentType(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderContentType)
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType != echo.MIMEApplicationJSON {
		_, message := httperrors.UnsupportedMediaType(
			fmt.Sprintf("Content-Type must be %s", echo.MIMEApplicationJSON))
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, message)
	}
	return nil
}

// decodeBody reads a JSON object, keeping numbers as json.Number so prices
// reach the domain without float rounding.
func decodeBody(c echo.Context) (map[string]interface{}, error) {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()

	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		_, message := httperrors.BadRequest(fmt.Sprintf("invalid JSON body: %v", err))
		return nil, echo.NewHTTPError(http.StatusBadRequest, message)
	}
	return data, nil
}

func productLocation(c echo.Context, id int64) string {
	return fmt.Sprintf("%s://%s/products/%d", c.Scheme(), c.Request().Host, id)
}
