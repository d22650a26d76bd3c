package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerolite/internal/models"
)

type mockNotifier struct {
	successes []string
	errors    []string
}

func (m *mockNotifier) Success(msg string) { m.successes = append(m.successes, msg) }
func (m *mockNotifier) Error(msg string)   { m.errors = append(m.errors, msg) }

func validForm() Form {
	return Form{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Subject:   "purchase",
		Message:   "Interested in the G650",
	}
}

func TestSubmit_MissingRequired(t *testing.T) {
	for _, blank := range []func(*Form){
		func(f *Form) { f.FirstName = "" },
		func(f *Form) { f.LastName = "" },
		func(f *Form) { f.Email = "" },
		func(f *Form) { f.Subject = "" },
		func(f *Form) { f.Message = "  " },
	} {
		n := &mockNotifier{}
		d := NewDesk(time.Millisecond, n)
		form := validForm()
		blank(&form)

		err := d.Submit(context.Background(), form)

		var vErr *models.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"Please fill in all required fields"}, n.errors)
		assert.False(t, d.SuccessOpen())
	}
}

func TestSubmit_Success(t *testing.T) {
	n := &mockNotifier{}
	d := NewDesk(20*time.Millisecond, n)

	done := make(chan error, 1)
	go func() { done <- d.Submit(context.Background(), validForm()) }()

	assert.Eventually(t, func() bool {
		return d.Control() == Control{Label: "Sending...", Disabled: true}
	}, time.Second, time.Millisecond)

	require.NoError(t, <-done)
	assert.Equal(t, Control{Label: "Send Message"}, d.Control())
	assert.True(t, d.SuccessOpen())
	assert.NotEmpty(t, d.LastReference())
	assert.Equal(t, []string{"Message sent! We'll contact you soon."}, n.successes)

	d.CloseSuccess()
	assert.False(t, d.SuccessOpen())
}

func TestSubmit_Urgent(t *testing.T) {
	n := &mockNotifier{}
	d := NewDesk(0, n)
	form := validForm()
	form.Urgent = true

	require.NoError(t, d.Submit(context.Background(), form))
	assert.Equal(t, []string{"Message sent urgently! We'll contact you soon."}, n.successes)
}

func TestSubmit_Cancelled(t *testing.T) {
	n := &mockNotifier{}
	d := NewDesk(time.Hour, n)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Submit(ctx, validForm())

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Failed to send message. Please try again."}, n.errors)
	assert.Equal(t, Control{Label: "Send Message"}, d.Control())
	assert.False(t, d.SuccessOpen())
}
