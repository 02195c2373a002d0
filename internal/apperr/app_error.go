package apperr

import "github.com/tuanvumaihuynh/product-service/pkg/zerror"

const (
	ValidationErrorCode        = "VALIDATION_FAILED"
	ProductNotFoundCode        = "PRODUCT_NOT_FOUND"
	ProductUpdateForbiddenCode = "PRODUCT_UPDATE_FORBIDDEN"
	ProductDeleteForbiddenCode = "PRODUCT_DELETE_FORBIDDEN"
	SellerRoleRequiredCode     = "SELLER_ROLE_REQUIRED"
	MissingIdentityCode        = "MISSING_IDENTITY"
	UnauthorizedCode           = "UNAUTHORIZED"
	StoreUnavailableCode       = "STORE_UNAVAILABLE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "Product not found")

	ProductUpdateForbiddenErr = zerror.NewForbidden(ProductUpdateForbiddenCode,
		"You do not have permission to update this product")
	ProductDeleteForbiddenErr = zerror.NewForbidden(ProductDeleteForbiddenCode,
		"You do not have permission to delete this product")

	SellerRoleRequiredErr = zerror.NewValidationFailed(SellerRoleRequiredCode, "Seller role is required")
	MissingIdentityErr    = zerror.NewValidationFailed(MissingIdentityCode, "Caller identity is required")
	UnauthorizedErr       = zerror.NewUnauthorized(UnauthorizedCode, "Invalid or missing credentials")

	StoreUnavailableErr = zerror.NewServiceUnavailable(StoreUnavailableCode, "Product store is unavailable")
)
