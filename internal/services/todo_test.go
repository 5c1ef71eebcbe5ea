package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/avolkov-dev/gw-ledger-review/internal/models"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

func TestTodoService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTodoReader(ctrl)
	mockWriter := services.NewMockTodoWriter(ctrl)

	svc := services.NewTodoService(mockReader, mockWriter)

	userID := uuid.New()
	todoID := uuid.New()

	t.Run("list", func(t *testing.T) {
		mockReader.EXPECT().
			ListByUserID(gomock.Any(), userID).
			Return([]models.TodoDB{{TodoID: todoID, UserID: userID, Title: "buy milk"}}, nil)

		todos, err := svc.List(context.Background(), userID)
		assert.NoError(t, err)
		assert.Len(t, todos, 1)
	})

	t.Run("add trims title", func(t *testing.T) {
		mockWriter.EXPECT().
			Save(gomock.Any(), userID, "buy milk").
			Return(&models.TodoDB{TodoID: todoID, UserID: userID, Title: "buy milk"}, nil)

		todo, err := svc.Add(context.Background(), userID, "  buy milk  ")
		assert.NoError(t, err)
		assert.Equal(t, "buy milk", todo.Title)
	})

	t.Run("add rejects empty title", func(t *testing.T) {
		todo, err := svc.Add(context.Background(), userID, "   ")
		assert.ErrorIs(t, err, services.ErrEmptyTitle)
		assert.Nil(t, todo)
	})

	t.Run("toggle", func(t *testing.T) {
		mockWriter.EXPECT().
			Toggle(gomock.Any(), userID, todoID).
			Return(&models.TodoDB{TodoID: todoID, UserID: userID, IsComplete: true}, nil)

		todo, err := svc.Toggle(context.Background(), userID, todoID)
		assert.NoError(t, err)
		assert.True(t, todo.IsComplete)
	})

	t.Run("toggle missing todo", func(t *testing.T) {
		mockWriter.EXPECT().
			Toggle(gomock.Any(), userID, todoID).
			Return(nil, models.ErrTodoNotFound)

		_, err := svc.Toggle(context.Background(), userID, todoID)
		assert.ErrorIs(t, err, models.ErrTodoNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		mockWriter.EXPECT().Delete(gomock.Any(), userID, todoID).Return(nil)

		err := svc.Delete(context.Background(), userID, todoID)
		assert.NoError(t, err)
	})
}
