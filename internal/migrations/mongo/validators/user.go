package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"email",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 320,
			},

			"is_admin": bson.M{
				"bsonType": "bool",
			},

			"host_verification_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"unregistered",
					"registered",
					"verified",
				},
			},

			"time_zone": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"rate_card": bson.M{
				"bsonType": "object",
				"required": []string{"hourly_rate", "currency"},
				"properties": bson.M{
					"hourly_rate": bson.M{
						"bsonType": "decimal",
					},
					"currency": bson.M{
						"bsonType":  "string",
						"minLength": 3,
						"maxLength": 3,
					},
					"add_ons": bson.M{
						"bsonType": "object",
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
