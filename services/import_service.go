package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopzeo-backend/models"
	"shopzeo-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrFatalParse marks a file that cannot be read as CSV at all. The batch is
// aborted with zero processed rows.
var ErrFatalParse = errors.New("FatalParseError")

// Canonical column names after header normalization. Required columns first.
const (
	colProductCode  = "product code"
	colName         = "name"
	colSKU          = "sku id"
	colSellingPrice = "selling price"
	colCategoryID   = "category id"
	colStoreID      = "store id"

	colMRP           = "mrp"
	colCostPrice     = "cost price"
	colQuantity      = "quantity"
	colDescription   = "description"
	colTaxRate       = "tax rate"
	colLength        = "length cm"
	colWidth         = "width cm"
	colHeight        = "height cm"
	colWeight        = "weight kg"
	colImages        = "images"
	colVideos        = "videos"
	colSubCategoryID = "sub category id"
	colFeatured      = "is featured"
)

// ImportService converts an uploaded CSV into product create/update
// operations with per-row isolation and a consolidated report.
type ImportService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	storeRepo    repository.StoreRepository
	logger       *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	storeRepo repository.StoreRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storeRepo:    storeRepo,
		logger:       logger,
	}
}

// normalizeHeader folds case, trims and treats underscores as spaces so
// "Product_Code", " product code " and "PRODUCT CODE" all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// ImportProducts runs the full pipeline: parse, validate and persist each row
// independently. A bad row never aborts the batch; only an unreadable header
// does (ErrFatalParse).
func (s *ImportService) ImportProducts(ctx context.Context, r io.Reader, mode models.ImportMode) (*models.BulkImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV must include a header row", ErrFatalParse)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeHeader(h)] = i
	}

	result := &models.BulkImportResult{}
	// Product codes already persisted by this batch. Marked only on success
	// so a failed first occurrence does not poison a valid retry row.
	seenCodes := make(map[string]bool)

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		result.Results.Total++

		if err != nil {
			result.Results.Failed++
			result.FailedRows = append(result.FailedRows, models.FailedRow{
				Row:    rowNum,
				Reason: models.ReasonValidationError("row", "malformed CSV record"),
			})
			continue
		}

		if reason := s.processRow(ctx, index, row, mode, seenCodes); reason != "" {
			result.Results.Failed++
			result.FailedRows = append(result.FailedRows, models.FailedRow{Row: rowNum, Reason: reason})
			continue
		}
		result.Results.Success++
	}

	result.Success = result.Results.Failed == 0
	s.logger.Info("Bulk import finished",
		zap.String("mode", string(mode)),
		zap.Int("total", result.Results.Total),
		zap.Int("success", result.Results.Success),
		zap.Int("failed", result.Results.Failed),
	)
	return result, nil
}

// ValidateImport is the dry-run variant: same parsing and validation, no
// writes.
func (s *ImportService) ValidateImport(ctx context.Context, r io.Reader) (*models.BulkImportValidation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV must include a header row", ErrFatalParse)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeHeader(h)] = i
	}

	validation := &models.BulkImportValidation{}
	seen := make(map[string]bool)

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		validation.TotalRows++

		if err != nil {
			validation.InvalidRows++
			validation.FailedRows = append(validation.FailedRows, models.FailedRow{
				Row:    rowNum,
				Reason: models.ReasonValidationError("row", "malformed CSV record"),
			})
			continue
		}

		fields, reason := s.extractAndValidate(ctx, index, row)
		if reason != "" {
			validation.InvalidRows++
			validation.FailedRows = append(validation.FailedRows, models.FailedRow{Row: rowNum, Reason: reason})
			continue
		}

		if seen[fields.code] {
			validation.DuplicateCodes = append(validation.DuplicateCodes, fields.code)
		}
		seen[fields.code] = true
		validation.ValidRows++
	}

	return validation, nil
}

// rowFields holds the parsed, validated values of one data row.
type rowFields struct {
	code         string
	name         string
	sku          string
	sellingPrice float64
	categoryID   uuid.UUID
	storeID      uuid.UUID

	mrp           float64
	costPrice     float64
	quantity      int
	description   string
	taxRate       float64
	lengthCm      float64
	widthCm       float64
	heightCm      float64
	weightKg      float64
	images        []string
	videos        []string
	subCategoryID *uuid.UUID
	isFeatured    bool
}

// processRow validates one row and persists it. An empty return means
// success; otherwise the failure reason is returned. Each row is a single
// atomic create or update: a failed row leaves no partial writes.
func (s *ImportService) processRow(ctx context.Context, index map[string]int, row []string, mode models.ImportMode, seenCodes map[string]bool) string {
	fields, reason := s.extractAndValidate(ctx, index, row)
	if reason != "" {
		return reason
	}

	existing, err := s.productRepo.FindByCode(ctx, fields.code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ReasonPersistenceError(err.Error())
	}

	exists := existing != nil || seenCodes[fields.code]
	if exists && mode == models.ImportModeInsert {
		return models.ReasonDuplicateProductCode
	}

	if existing != nil {
		// Upsert: update the matched record in place. Slug is kept stable.
		applyRowToProduct(fields, existing)
		if err := s.productRepo.Update(ctx, existing); err != nil {
			return models.ReasonPersistenceError(err.Error())
		}
		seenCodes[fields.code] = true
		return ""
	}

	product := &models.Product{Code: fields.code}
	applyRowToProduct(fields, product)

	slug, err := s.uniqueSlug(ctx, fields.name, fields.code)
	if err != nil {
		return models.ReasonPersistenceError(err.Error())
	}
	product.Slug = slug
	product.IsActive = true

	if err := s.productRepo.Create(ctx, product); err != nil {
		return models.ReasonPersistenceError(err.Error())
	}
	seenCodes[fields.code] = true
	return ""
}

// extractAndValidate pulls the required and optional columns out of a raw row
// and type-checks them. Returns the parsed fields or a failure reason.
func (s *ImportService) extractAndValidate(ctx context.Context, index map[string]int, row []string) (*rowFields, string) {
	get := func(col string) string {
		idx, ok := index[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	f := &rowFields{
		code: get(colProductCode),
		name: get(colName),
		sku:  get(colSKU),
	}

	// Required fields. Missing or empty fails the row.
	required := []struct {
		value string
		field string
	}{
		{f.code, "product_code"},
		{f.name, "name"},
		{f.sku, "sku"},
		{get(colSellingPrice), "selling_price"},
		{get(colCategoryID), "category_id"},
		{get(colStoreID), "store_id"},
	}
	for _, req := range required {
		if req.value == "" {
			return nil, models.ReasonMissingField(req.field)
		}
	}

	price, err := strconv.ParseFloat(get(colSellingPrice), 64)
	if err != nil {
		return nil, models.ReasonValidationError("selling_price", "not a number")
	}
	if price < 0 {
		return nil, models.ReasonValidationError("selling_price", "must be non-negative")
	}
	f.sellingPrice = price

	categoryID, err := uuid.Parse(get(colCategoryID))
	if err != nil {
		return nil, models.ReasonValidationError("category_id", "invalid identifier")
	}
	ok, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return nil, models.ReasonPersistenceError(err.Error())
	}
	if !ok {
		return nil, models.ReasonValidationError("category_id", "not found")
	}
	f.categoryID = categoryID

	storeID, err := uuid.Parse(get(colStoreID))
	if err != nil {
		return nil, models.ReasonValidationError("store_id", "invalid identifier")
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ReasonValidationError("store_id", "not found")
		}
		return nil, models.ReasonPersistenceError(err.Error())
	}
	f.storeID = storeID

	// Optional fields, mapped best-effort but still type-checked when present.
	if v := get(colQuantity); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil || qty < 0 {
			return nil, models.ReasonValidationError("quantity", "must be a non-negative integer")
		}
		f.quantity = qty
	}

	optionalFloats := []struct {
		col   string
		field string
		dst   *float64
	}{
		{colMRP, "mrp", &f.mrp},
		{colCostPrice, "cost_price", &f.costPrice},
		{colTaxRate, "tax_rate", &f.taxRate},
		{colLength, "length_cm", &f.lengthCm},
		{colWidth, "width_cm", &f.widthCm},
		{colHeight, "height_cm", &f.heightCm},
		{colWeight, "weight_kg", &f.weightKg},
	}
	for _, opt := range optionalFloats {
		v := get(opt.col)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, models.ReasonValidationError(opt.field, "must be a non-negative number")
		}
		*opt.dst = parsed
	}

	f.description = get(colDescription)

	if v := get(colImages); v != "" {
		f.images = splitMediaList(v, models.MaxProductImages)
	}
	if v := get(colVideos); v != "" {
		f.videos = splitMediaList(v, models.MaxProductVideos)
	}

	if v := get(colSubCategoryID); v != "" {
		subID, err := uuid.Parse(v)
		if err != nil {
			return nil, models.ReasonValidationError("sub_category_id", "invalid identifier")
		}
		f.subCategoryID = &subID
	}

	if v := get(colFeatured); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return nil, models.ReasonValidationError("is_featured", "must be a boolean")
		}
		f.isFeatured = featured
	}

	return f, ""
}

// splitMediaList splits a pipe-separated media cell and caps the count.
func splitMediaList(v string, max int) []string {
	parts := strings.Split(v, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// applyRowToProduct copies row values onto the product record.
func applyRowToProduct(f *rowFields, p *models.Product) {
	p.Name = f.name
	p.SKU = f.sku
	p.Description = f.description
	p.SellingPrice = f.sellingPrice
	p.MRP = f.mrp
	p.CostPrice = f.costPrice
	p.TaxRate = f.taxRate
	p.Quantity = f.quantity
	p.LengthCm = f.lengthCm
	p.WidthCm = f.widthCm
	p.HeightCm = f.heightCm
	p.WeightKg = f.weightKg
	p.Images = f.images
	p.Videos = f.videos
	p.CategoryID = f.categoryID
	p.SubCategoryID = f.subCategoryID
	p.StoreID = f.storeID
	p.IsFeatured = f.isFeatured
}

// uniqueSlug derives a URL slug from the product name, suffixing with the
// product code when the plain slug is taken.
func (s *ImportService) uniqueSlug(ctx context.Context, name, code string) (string, error) {
	slug := Slugify(name)
	exists, err := s.productRepo.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return slug + "-" + strings.ToLower(code), nil
}
