package database

import (
	"context"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client     *mongo.Client
	once       sync.Once
	connectErr error

	PunchLogCollection *mongo.Collection
)

// ConnectMongoDB 連接 MongoDB，只連一次。
// uri 留空表示不啟用打卡歷史保存，直接跳過
func ConnectMongoDB(uri string) error {
	if uri == "" {
		log.Println("⚠️ MONGO_URI 未設定，打卡歷史將不會保存")
		return nil
	}

	once.Do(func() {
		clientOptions := options.Client().ApplyURI(uri)

		client, connectErr = mongo.Connect(context.TODO(), clientOptions)
		if connectErr != nil {
			log.Println("❌ Failed to connect to MongoDB:", connectErr)
			return
		}

		connectErr = client.Ping(context.TODO(), readpref.Primary())
		if connectErr != nil {
			log.Println("❌ MongoDB ping failed:", connectErr)
			return
		}

		PunchLogCollection = client.Database("AutoCheckinDB").Collection("PunchLogs")
		log.Println("✅ MongoDB connected successfully")
	})

	return connectErr
}

// Available 是否已連上 MongoDB
func Available() bool {
	return client != nil && connectErr == nil
}
