package sqlinline

const QSelectIntegrationToken = `--sql f61d3bd7-fb98-4810-ac8f-2104345861c6
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql c51ecedf-c654-492c-b2c1-19a42c7a427e
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
