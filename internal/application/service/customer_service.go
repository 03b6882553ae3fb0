package service

import (
	"context"
	"errors"
	"io"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

type CustomerService struct {
	customerRepo   domain.CustomerRepository
	blobs          domain.BlobStore
	revalidator    domain.PathRevalidator
	eventPublisher domain.EventPublisher // Optional - can be nil
	logger         *zap.Logger
}

func NewCustomerService(
	customerRepo domain.CustomerRepository,
	blobs domain.BlobStore,
	revalidator domain.PathRevalidator,
	eventPublisher domain.EventPublisher,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo:   customerRepo,
		blobs:          blobs,
		revalidator:    revalidator,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ImageUpload is an already validated avatar file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CustomerInput is a validated customer form. Image is nil when no file was sent.
type CustomerInput struct {
	Name  string
	Email string
	Image *ImageUpload
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in CustomerInput) *ActionState {
	imageURL := domain.PlaceholderImageURL
	if in.Image != nil {
		url, err := s.upload(ctx, in.Name, in.Image)
		if err != nil {
			s.logger.Error("failed to upload customer image",
				zap.Error(err),
				zap.String("filename", in.Image.Filename),
			)
			return failed(MsgCreateCustomerFailed)
		}
		imageURL = url
	}

	customer := domain.NewCustomer(in.Name, in.Email, imageURL)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			zap.Error(err),
			zap.String("email", in.Email),
		)
		if customer.HasCustomImage() {
			s.reportOrphan(ctx, "", customer.ImageURL, domain.OrphanReasonRowWriteFailed)
		}
		return failed(MsgCreateCustomerFailed)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID),
		zap.String("image_url", customer.ImageURL),
	)

	revalidate(ctx, s.revalidator, s.logger, domain.CustomersPath)
	return redirectTo(domain.CustomersPath)
}

// UpdateCustomer stores the new image before touching the old one, so a
// failed upload leaves the customer exactly as it was.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, in CustomerInput) *ActionState {
	if in.Image == nil {
		if err := s.customerRepo.Update(ctx, customerID, in.Name, in.Email, ""); err != nil {
			s.logger.Error("failed to update customer",
				zap.Error(err),
				zap.String("customer_id", customerID),
			)
			return failed(MsgUpdateCustomerFailed)
		}
		s.logger.Info("customer updated", zap.String("customer_id", customerID))
		revalidate(ctx, s.revalidator, s.logger, domain.CustomersPath, domain.InvoicesPath)
		return redirectTo(domain.CustomersPath)
	}

	newURL, err := s.upload(ctx, in.Name, in.Image)
	if err != nil {
		s.logger.Error("failed to upload customer image",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return failed(MsgUpdateCustomerFailed)
	}

	oldURL, err := s.customerRepo.FindImageURL(ctx, customerID)
	if err != nil {
		s.logger.Error("failed to look up customer image",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		s.reportOrphan(ctx, customerID, newURL, domain.OrphanReasonRowWriteFailed)
		return failed(MsgUpdateCustomerFailed)
	}

	if domain.IsCustomImage(oldURL) && oldURL != newURL {
		s.deleteBlob(ctx, customerID, oldURL)
	}

	if err := s.customerRepo.Update(ctx, customerID, in.Name, in.Email, newURL); err != nil {
		s.logger.Error("failed to update customer",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		s.reportOrphan(ctx, customerID, newURL, domain.OrphanReasonRowWriteFailed)
		return failed(MsgUpdateCustomerFailed)
	}

	s.logger.Info("customer updated",
		zap.String("customer_id", customerID),
		zap.String("image_url", newURL),
	)

	revalidate(ctx, s.revalidator, s.logger, domain.CustomersPath, domain.InvoicesPath)
	return redirectTo(domain.CustomersPath)
}

// DeleteCustomer removes the avatar, the customer's invoices and the customer.
// A failed avatar delete does not block the rows from going.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string) *ActionState {
	imageURL, err := s.customerRepo.FindImageURL(ctx, customerID)
	if err != nil {
		s.logger.Error("failed to look up customer image",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return failed(MsgDeleteCustomerFailed)
	}

	if domain.IsCustomImage(imageURL) {
		s.deleteBlob(ctx, customerID, imageURL)
	}

	if err := s.customerRepo.DeleteWithInvoices(ctx, customerID); err != nil {
		s.logger.Error("failed to delete customer",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return failed(MsgDeleteCustomerFailed)
	}

	s.logger.Info("customer deleted", zap.String("customer_id", customerID))

	revalidate(ctx, s.revalidator, s.logger, domain.CustomersPath, domain.InvoicesPath)
	return &ActionState{Message: MsgCustomerDeleted, Redirect: domain.CustomersPath}
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			s.logger.Error("failed to get customer", zap.Error(err), zap.String("customer_id", customerID))
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context, query string) ([]*domain.CustomerListItem, error) {
	customers, err := s.customerRepo.List(ctx, query)
	if err != nil {
		s.logger.Error("failed to list customers", zap.Error(err), zap.String("query", query))
		return nil, err
	}
	return customers, nil
}

func (s *CustomerService) upload(ctx context.Context, customerName string, image *ImageUpload) (string, error) {
	key := domain.CustomerImageKey(customerName, image.Filename)
	return s.blobs.Put(ctx, key, image.ContentType, image.Body)
}

func (s *CustomerService) deleteBlob(ctx context.Context, customerID, url string) {
	err := s.blobs.Delete(ctx, url)
	if err == nil || errors.Is(err, domain.ErrBlobNotFound) {
		return
	}
	s.logger.Warn("failed to delete customer image",
		zap.Error(err),
		zap.String("customer_id", customerID),
		zap.String("image_url", url),
	)
	s.reportOrphan(ctx, customerID, url, domain.OrphanReasonDeleteFailed)
}

// reportOrphan hands an unreferenced blob to the cleanup worker. Without a
// publisher the warning log is the only trace.
func (s *CustomerService) reportOrphan(ctx context.Context, customerID, url, reason string) {
	if s.eventPublisher == nil {
		s.logger.Warn("orphaned blob left in store",
			zap.String("customer_id", customerID),
			zap.String("image_url", url),
			zap.String("reason", reason),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.NewBlobOrphanedEvent(customerID, domain.BlobOrphanedPayload{
		URL:        url,
		CustomerID: customerID,
		Reason:     reason,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish blob orphaned event",
			zap.Error(err),
			zap.String("image_url", url),
			zap.String("event_id", event.GetEventID()),
		)
	}
}
