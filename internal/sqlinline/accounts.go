package sqlinline

const QInsertUser = `--sql a08fe8c0-8a04-4d94-8cc6-e52e96b8c140
insert into users (id, name, age, email, phone, gender, password_hash, country, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::int, $3::text, $4::text, $5::text, $6::text, $7::text, now(), now())
returning id, name, age, email, phone, gender, password_hash, birth_date, country, created_at, updated_at;
`

const QSelectUserByID = `--sql 7e71ba17-6f77-4bc0-aca8-5fe978d990a3
select id, name, age, email, phone, gender, password_hash, birth_date, country, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql 56d56204-b24f-4daf-9bd0-efd1e31bc80d
select id, name, age, email, phone, gender, password_hash, birth_date, country, created_at, updated_at
from users
where email = $1::text
limit 1;
`

const QUpdateUserProfile = `--sql efe978f2-9114-4085-8411-fd0c5240a10b
update users set
    name = coalesce($2::text, name),
    phone = coalesce($3::text, phone),
    country = coalesce($4::text, country),
    birth_date = coalesce($5::date, birth_date),
    updated_at = now()
where id = $1::uuid
returning id, name, age, email, phone, gender, password_hash, birth_date, country, created_at, updated_at;
`

const QUpdateUserPassword = `--sql 372aabb7-d7ad-463c-9d0c-b481a7faef0c
update users set password_hash = $2::text, updated_at = now()
where id = $1::uuid;
`

const QCountUsers = `--sql 9b68d772-6493-4d73-93e7-0dc93a7885d1
select count(*) from users;
`

const QListUsers = `--sql 24329d79-5647-4fdf-9cf1-df5c2580375c
select id, name, age, email, phone, gender, password_hash, birth_date, country, created_at, updated_at
from users
order by created_at desc, id desc
limit $1::int offset $2::int;
`

const QUpsertAdmin = `--sql 37b59603-7fa5-42eb-bb23-77e54f57a04b
insert into admins (id, username, password_hash, role, name, email, phone, country, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, 'admin', $3::text, $4::text, $5::text, $6::text, now(), now())
on conflict (username) do update set
    password_hash = excluded.password_hash,
    name = excluded.name,
    email = excluded.email,
    phone = excluded.phone,
    country = excluded.country,
    updated_at = now()
returning id, username, password_hash, role, name, email, phone, birth_date, country, created_at, updated_at;
`

const QSelectAdminByUsername = `--sql 355a29de-3c5e-41a4-9779-3141c9a027f3
select id, username, password_hash, role, name, email, phone, birth_date, country, created_at, updated_at
from admins
where username = $1::text
limit 1;
`

const QUpdateAdminProfile = `--sql 899efd61-2f02-45a4-9280-43deed146dd2
update admins set
    name = coalesce($2::text, name),
    phone = coalesce($3::text, phone),
    country = coalesce($4::text, country),
    birth_date = coalesce($5::date, birth_date),
    updated_at = now()
where username = $1::text
returning id, username, password_hash, role, name, email, phone, birth_date, country, created_at, updated_at;
`

const QCountAdmins = `--sql 8cd031ca-7e21-42c5-b57b-ed2bedd2c5fa
select count(*) from admins;
`

const QListAdmins = `--sql 338d2b58-3e7f-4f71-92b2-7233f8303c0e
select id, username, password_hash, role, name, email, phone, birth_date, country, created_at, updated_at
from admins
order by created_at desc, id desc
limit $1::int offset $2::int;
`
