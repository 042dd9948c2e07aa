package punch

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Auto-Checkin-EHR/src/database"
	"Auto-Checkin-EHR/src/models"
)

// MongoStore 把打卡歷史寫進 MongoDB。
// 寫入失敗只記 log，打卡流程不因歷史保存失敗而中斷
type MongoStore struct{}

func (MongoStore) Append(entry models.PunchLog) {
	if !database.Available() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.PunchLogCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("❌ 打卡歷史寫入失敗: %v", err)
	}
}

// Recent 取最近 n 筆打卡歷史，新的在前，dashboard 用
func (MongoStore) Recent(n int64) ([]models.PunchLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(n)
	cursor, err := database.PunchLogCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.PunchLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
