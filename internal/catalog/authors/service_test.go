package authors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/apperr"
)

type fakeStore struct {
	items  map[int64]string
	nextID int64
}

func newFakeStore() *fakeStore { return &fakeStore{items: make(map[int64]string)} }

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Author, error) {
	name, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &Author{ID: id, Name: name}, nil
}

func (f *fakeStore) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, n := range f.items {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, name string) (int64, error) {
	f.nextID++
	f.items[f.nextID] = name
	return f.nextID, nil
}

func (f *fakeStore) List(_ context.Context) ([]*Author, error) {
	var result []*Author
	for i := int64(1); i <= f.nextID; i++ {
		if name, ok := f.items[i]; ok {
			result = append(result, &Author{ID: i, Name: name})
		}
	}
	return result, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, name string) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	f.items[id] = name
	return 1, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

func TestAdd(t *testing.T) {
	svc := NewServiceWith(newFakeStore())
	ctx := context.Background()

	res, err := svc.Add(ctx, "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "Frank Herbert", res.Name)

	_, err = svc.Add(ctx, "Frank Herbert")
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists))
}

func TestGetAndList(t *testing.T) {
	svc := NewServiceWith(newFakeStore())
	ctx := context.Background()

	_, err := svc.Add(ctx, "Frank Herbert")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Ursula K. Le Guin")
	require.NoError(t, err)

	got, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", got.Name)

	_, err = svc.Get(ctx, 99)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	svc := NewServiceWith(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, "Frank Herbet")
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, 1, "Frank Herbert"))
	assert.Equal(t, "Frank Herbert", store.items[1])

	err = svc.Update(ctx, 1, "Frank Herbert")
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists))

	err = svc.Update(ctx, 99, "Nobody")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestRemove(t *testing.T) {
	svc := NewServiceWith(newFakeStore())
	ctx := context.Background()

	_, err := svc.Add(ctx, "Frank Herbert")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1))

	err = svc.Remove(ctx, 1)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
