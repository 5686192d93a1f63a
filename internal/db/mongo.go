package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Slots              *mongo.Collection
	BookingSubmissions *mongo.Collection
	Bookings           *mongo.Collection
	Leads              *mongo.Collection
	PracticeAreas      *mongo.Collection
	BlogPosts          *mongo.Collection
	CaseStudies        *mongo.Collection
	SitePages          *mongo.Collection
	Settings           *mongo.Collection
	Users              *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Slots:              db.Collection("availability_slots"),
		BookingSubmissions: db.Collection("booking_submissions"),
		Bookings:           db.Collection("bookings"),
		Leads:              db.Collection("leads"),
		PracticeAreas:      db.Collection("practice_areas"),
		BlogPosts:          db.Collection("blog_posts"),
		CaseStudies:        db.Collection("case_studies"),
		SitePages:          db.Collection("site_pages"),
		Settings:           db.Collection("homepage_settings"),
		Users:              db.Collection("users"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// No uniqueness on slot times: overlapping slots are allowed.
	if _, err := cols.Slots.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_available", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}}},
	}); err != nil {
		return err
	}

	// Several submissions may reference the same slot, so this index is not unique.
	if _, err := cols.BookingSubmissions.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slot_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return err
	}

	if _, err := cols.Bookings.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_time", Value: -1}}},
	}); err != nil {
		return err
	}

	if _, err := cols.Leads.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return err
	}

	for _, col := range []*mongo.Collection{cols.PracticeAreas, cols.BlogPosts, cols.CaseStudies, cols.SitePages} {
		if _, err := col.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}); err != nil {
			return err
		}
	}

	if _, err := cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return err
	}

	return nil
}
