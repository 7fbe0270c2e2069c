package testutil

import (
	"context"
	"reflect"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/repository"

	"github.com/google/uuid"
)

// SampleRoom creates a ready room in the database. Non-zero fields of init
// overwrite the sample.
func SampleRoom(ctx context.Context, init *entity.Room) (entity.Room, error) {
	sample := &entity.Room{
		Base:              entity.Base{ID: uuid.NewString()},
		RoomID:            uuid.NewString(),
		HostID:            uuid.NewString(),
		HostWallet:        "Vote111111111111111111111111111111111111111",
		CharityWallet:     "So11111111111111111111111111111111111111112",
		FeeTokenMint:      "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		EntryFee:          1_000_000,
		PlatformFeeBps:    2000,
		HostFeeBps:        300,
		PrizePoolBps:      3500,
		CharityBps:        4200,
		PrizeMode:         entity.PrizeModePoolSplit,
		PrizeDistribution: entity.Array[int]{50, 30, 20},
		Status:            entity.RoomStatusReady,
		MaxPlayers:        20,
		TotalRounds:       2,
		QuestionsPerRound: 3,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewRoomRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SamplePlayerEntry creates a paid cash entry. Non-zero fields of init
// overwrite the sample.
func SamplePlayerEntry(ctx context.Context, init *entity.PlayerEntry) (entity.PlayerEntry, error) {
	sample := &entity.PlayerEntry{
		Base:        entity.Base{ID: uuid.NewString()},
		RoomID:      uuid.NewString(),
		PlayerID:    uuid.NewString(),
		Method:      entity.PaymentMethodCash,
		EntryPaid:   true,
		EntryAmount: 1_000_000,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewPaymentRepository().Upsert(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !reflect.DeepEqual(
			overwriteField.Interface(),
			reflect.Zero(overwriteField.Type()).Interface(),
		) {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
