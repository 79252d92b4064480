package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrNoDomain is returned when a sender address has no extractable domain
var ErrNoDomain = errors.New("could not extract domain from email address")

// Reputation maintains the user-curated sender and domain lists
type Reputation struct {
	doc    *Document
	logger *zap.Logger
}

// NewReputation creates a reputation list service
func NewReputation(doc *Document, logger *zap.Logger) *Reputation {
	return &Reputation{doc: doc, logger: logger}
}

// ExtractDomain returns the lower-cased domain of an email address.
// The domain is the substring after the last @; malformed addresses
// yield ErrNoDomain.
func ExtractDomain(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", ErrNoDomain
	}
	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") {
		return "", ErrNoDomain
	}
	return domain, nil
}

// addToList appends value to the stored list if absent.
// Returns whether the value was newly added.
func (r *Reputation) addToList(ctx context.Context, key, value string) (bool, error) {
	added := false
	err := r.doc.Update(ctx, []string{key}, func(values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		list, err := decodeStringSlice(values, key)
		if err != nil {
			return nil, err
		}
		for _, existing := range list {
			if existing == value {
				return nil, nil
			}
		}
		added = true
		list = append(list, value)
		return map[string]json.RawMessage{key: encode(list)}, nil
	})
	return added, err
}

func (r *Reputation) listContains(ctx context.Context, key, value string) (bool, error) {
	values, err := r.doc.Read(ctx, key)
	if err != nil {
		return false, err
	}
	list, err := decodeStringSlice(values, key)
	if err != nil {
		return false, err
	}
	for _, existing := range list {
		if existing == value {
			return true, nil
		}
	}
	return false, nil
}

// Trust marks a sender as explicitly trusted. Idempotent.
func (r *Reputation) Trust(ctx context.Context, sender string) error {
	added, err := r.addToList(ctx, KeyTrustedList, sender)
	if err != nil {
		return err
	}
	if added {
		r.logger.Info("Sender added to trusted list", zap.String("sender", sender))
	}
	return nil
}

// Report marks a sender as explicitly reported. Idempotent.
func (r *Reputation) Report(ctx context.Context, sender string) error {
	added, err := r.addToList(ctx, KeyReportedList, sender)
	if err != nil {
		return err
	}
	if added {
		r.logger.Info("Sender reported", zap.String("sender", sender))
	}
	return nil
}

// BlockDomain extracts and blocks the domain of a sender address.
// Returns the normalized domain and whether it was newly blocked, so
// callers can show distinct messages for the two cases. Malformed
// addresses return ErrNoDomain without touching the store.
func (r *Reputation) BlockDomain(ctx context.Context, sender string) (string, bool, error) {
	domain, err := ExtractDomain(sender)
	if err != nil {
		return "", false, err
	}
	return r.BlockDomainName(ctx, domain)
}

// BlockDomainName blocks an already-extracted domain name. It is
// normalized the same way ExtractDomain normalizes; names without a
// dot yield ErrNoDomain.
func (r *Reputation) BlockDomainName(ctx context.Context, domain string) (string, bool, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || !strings.Contains(domain, ".") {
		return "", false, ErrNoDomain
	}
	added, err := r.addToList(ctx, KeyBlockedDomains, domain)
	if err != nil {
		return "", false, err
	}
	if added {
		r.logger.Info("Domain blocked", zap.String("domain", domain))
	}
	return domain, added, nil
}

// IsTrusted reports whether a sender is on the trusted list
func (r *Reputation) IsTrusted(ctx context.Context, sender string) (bool, error) {
	return r.listContains(ctx, KeyTrustedList, sender)
}

// IsReported reports whether a sender is on the reported list
func (r *Reputation) IsReported(ctx context.Context, sender string) (bool, error) {
	return r.listContains(ctx, KeyReportedList, sender)
}

// IsDomainBlocked reports whether the sender's domain is blocked.
// Senders without an extractable domain are never considered blocked.
func (r *Reputation) IsDomainBlocked(ctx context.Context, sender string) (bool, error) {
	domain, err := ExtractDomain(sender)
	if err != nil {
		return false, nil
	}
	return r.listContains(ctx, KeyBlockedDomains, domain)
}

// Lists returns the three reputation lists for display
func (r *Reputation) Lists(ctx context.Context) (trusted, reported, blockedDomains []string, err error) {
	values, err := r.doc.Read(ctx, KeyTrustedList, KeyReportedList, KeyBlockedDomains)
	if err != nil {
		return nil, nil, nil, err
	}
	if trusted, err = decodeStringSlice(values, KeyTrustedList); err != nil {
		return nil, nil, nil, err
	}
	if reported, err = decodeStringSlice(values, KeyReportedList); err != nil {
		return nil, nil, nil, err
	}
	if blockedDomains, err = decodeStringSlice(values, KeyBlockedDomains); err != nil {
		return nil, nil, nil, err
	}
	return trusted, reported, blockedDomains, nil
}
