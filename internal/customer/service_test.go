package customer_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/storetest"
	"github.com/Les2015/auto-repair-shop/internal/validate"
)

func newService() *customer.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return customer.NewService(storetest.NewCustomers(), logger)
}

func validCustomer() *customer.Customer {
	c := customer.New()
	c.FirstName = "Ada"
	c.LastName = "Moreno"
	c.Address1 = "12 Shoreline Blvd"
	c.City = "Mountain View"
	c.State = "CA"
	c.Zip = "94041"
	c.Phone1 = "650-555-0101"
	return c
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAssignsKey", func(t *testing.T) {
		svc := newService()
		c := validCustomer()

		id, err := svc.Save(ctx, c)
		require.NoError(t, err)
		assert.True(t, id.Persisted())

		stored, err := svc.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Moreno", stored.LastName)
	})

	t.Run("SaveRejectsInvalidRecord", func(t *testing.T) {
		svc := newService()
		c := validCustomer()
		c.LastName = ""
		c.Zip = "123"

		_, err := svc.Save(ctx, c)
		var verr *validate.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Text, "missing last_name\n")
		assert.Contains(t, verr.Text, "invalid zip\n")
		assert.Contains(t, verr.Fields, "zip")
	})

	t.Run("SaveUpdatesExistingRecord", func(t *testing.T) {
		svc := newService()
		c := validCustomer()
		id, err := svc.Save(ctx, c)
		require.NoError(t, err)

		c.City = "Palo Alto"
		again, err := svc.Save(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, id, again)

		stored, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Palo Alto", stored.City)
	})

	t.Run("DuplicateDetectedOnCreate", func(t *testing.T) {
		svc := newService()
		_, err := svc.Save(ctx, validCustomer())
		require.NoError(t, err)

		dup := validCustomer()
		dup.FirstName = "ADA"
		dup.LastName = "moreno"

		_, err = svc.Save(ctx, dup)
		var derr *customer.DuplicateError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "Customer ADA moreno already in database\n", derr.Text)
		require.NotNil(t, derr.Match)
		assert.Equal(t, "Moreno", derr.Match.LastName)
	})

	t.Run("SamePhoneDifferentNameIsNotDuplicate", func(t *testing.T) {
		svc := newService()
		_, err := svc.Save(ctx, validCustomer())
		require.NoError(t, err)

		other := validCustomer()
		other.LastName = "Nakamura"
		_, err = svc.Save(ctx, other)
		assert.NoError(t, err)
	})

	t.Run("UpdateNeverChecksDuplicates", func(t *testing.T) {
		svc := newService()
		c := validCustomer()
		id, err := svc.Save(ctx, c)
		require.NoError(t, err)

		c.ID = id
		c.Comments = "prefers morning appointments"
		_, err = svc.Save(ctx, c)
		assert.NoError(t, err)
	})

	t.Run("GetAbsentIsNil", func(t *testing.T) {
		svc := newService()

		c, err := svc.Get(ctx, record.Unsaved)
		require.NoError(t, err)
		assert.Nil(t, c)

		c, err = svc.Get(ctx, record.ID("no-such-key"))
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("SearchOrdersAndCaps", func(t *testing.T) {
		svc := newService()
		for i := 0; i < customer.SearchLimit+5; i++ {
			c := validCustomer()
			c.FirstName = fmt.Sprintf("Ada%03d", i)
			c.LastName = fmt.Sprintf("Zeta%03d", i)
			_, err := svc.Save(ctx, c)
			require.NoError(t, err)
		}

		results, err := svc.Search(ctx, &customer.Customer{City: "Mountain View"})
		require.NoError(t, err)
		require.Len(t, results, customer.SearchLimit)
		assert.Equal(t, "Zeta000", results[0].LastName)
		assert.Equal(t, "Zeta001", results[1].LastName)
	})

	t.Run("SearchMatchesNamesCaseInsensitively", func(t *testing.T) {
		svc := newService()
		_, err := svc.Save(ctx, validCustomer())
		require.NoError(t, err)

		results, err := svc.Search(ctx, &customer.Customer{LastName: "MORENO"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Ada", results[0].FirstName)
	})
}
