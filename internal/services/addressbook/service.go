package addressbook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// Service implements domain.AddressBookService.
type Service struct {
	books    domain.AddressBookStore
	registry domain.Registry
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// New returns an address book service. registry validates added identities.
func New(
	books domain.AddressBookStore,
	registry domain.Registry,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		books:    books,
		registry: registry,
		log:      logging.OrNop(log).Named("addressbook"),
		metrics:  m,
	}
}

func checkNickname(n domain.Nickname) error {
	if len(n) > domain.NicknameLengthLimit {
		return domain.ErrNicknameTooLong
	}
	return nil
}

func (s *Service) requireBook(ctx context.Context, caller domain.AccountID) error {
	ok, err := s.books.HasBook(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAddressBookNotFound
	}
	return nil
}

// CreateBook creates the caller's address book.
func (s *Service) CreateBook(ctx context.Context, caller domain.AccountID) (err error) {
	defer func() { s.metrics.Observe("create_address_book", err) }()

	if err := s.books.CreateBook(ctx, caller); err != nil {
		return err
	}
	s.log.Info("address book created", zap.Stringer("owner", caller))
	return nil
}

// RemoveBook deletes the caller's address book and all its entries.
func (s *Service) RemoveBook(ctx context.Context, caller domain.AccountID) (err error) {
	defer func() { s.metrics.Observe("remove_address_book", err) }()

	ok, err := s.books.DeleteBook(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAddressBookNotFound
	}
	s.log.Info("address book removed", zap.Stringer("owner", caller))
	return nil
}

// HasBook reports whether the caller has an address book.
func (s *Service) HasBook(ctx context.Context, caller domain.AccountID) (bool, error) {
	return s.books.HasBook(ctx, caller)
}

// AddIdentity adds an existing identity to the caller's book. nickname may be empty.
func (s *Service) AddIdentity(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	nickname domain.Nickname,
) (err error) {
	defer func() { s.metrics.Observe("add_book_identity", err) }()

	if err := checkNickname(nickname); err != nil {
		return err
	}
	if err := s.requireBook(ctx, caller); err != nil {
		return err
	}
	if _, err := s.registry.Identity(ctx, id); err != nil {
		return err
	}
	return s.books.AddEntry(ctx, domain.AddressBookEntry{Owner: caller, Identity: id, Nickname: nickname})
}

// RemoveIdentity removes an identity from the caller's book.
func (s *Service) RemoveIdentity(ctx context.Context, caller domain.AccountID, id domain.IdentityID) (err error) {
	defer func() { s.metrics.Observe("remove_book_identity", err) }()

	if err := s.requireBook(ctx, caller); err != nil {
		return err
	}
	ok, err := s.books.DeleteEntry(ctx, caller, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrIdentityNotAdded
	}
	return nil
}

// UpdateNickname sets or, with an empty nickname, clears an entry's alias.
func (s *Service) UpdateNickname(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	nickname domain.Nickname,
) (err error) {
	defer func() { s.metrics.Observe("update_nickname", err) }()

	if err := checkNickname(nickname); err != nil {
		return err
	}
	if err := s.requireBook(ctx, caller); err != nil {
		return err
	}
	ok, err := s.books.UpdateNickname(ctx, caller, id, nickname)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrIdentityNotAdded
	}
	return nil
}

// Lookup resolves a nickname in the caller's book.
func (s *Service) Lookup(
	ctx context.Context,
	caller domain.AccountID,
	nickname domain.Nickname,
) (domain.IdentityID, error) {
	if err := s.requireBook(ctx, caller); err != nil {
		return 0, err
	}
	id, ok, err := s.books.LookupNickname(ctx, caller, nickname)
	if err != nil {
		return 0, err
	}
	if !ok || nickname == "" {
		return 0, fmt.Errorf("%w: no entry named %q", domain.ErrIdentityNotAdded, nickname)
	}
	return id, nil
}

// Entries lists the caller's book ordered by identity.
func (s *Service) Entries(ctx context.Context, caller domain.AccountID) ([]domain.AddressBookEntry, error) {
	if err := s.requireBook(ctx, caller); err != nil {
		return nil, err
	}
	return s.books.ListEntries(ctx, caller)
}

// Compile-time assertion that Service implements domain.AddressBookService.
var _ domain.AddressBookService = (*Service)(nil)
