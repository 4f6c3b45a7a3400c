package migrations

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the service relies on: usernames,
// product codes and order codes collide at insert time instead of being
// pre-checked, and each user has at most one cart.
func EnsureIndexes(ctx context.Context, retries int, db *mongo.Database) error {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"products", mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"orders", mongo.IndexModel{
			Keys:    bson.D{{Key: "orderCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"carts", mongo.IndexModel{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, spec := range specs {
		_, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
