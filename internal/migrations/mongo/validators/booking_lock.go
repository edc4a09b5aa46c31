package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"host_id",
			"owner",
			"expires_at",
			"created_at",
		},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  `^booking_lock_.+_\d{8}$`,
			},
			"host_id": bson.M{
				"bsonType": "string",
			},
			"owner": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
