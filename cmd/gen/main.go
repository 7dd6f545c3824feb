package main

import (
	"nearby/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.ProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.ServiceModel{},
		model.BookingModel{},
		model.ReviewModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
